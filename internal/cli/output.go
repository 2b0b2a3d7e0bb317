package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/cafebill/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (validation, not found, illegal transition, failed scenarios)
	ExitCommandError = 2 // Command error (bad arguments, unreadable files, database errors)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the error was already written to the output,
	// so the caller should not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to the output.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// CLI error codes by domain error code. The hundreds digit is the kind:
// 1 validation, 2 not found, 3 illegal state, 4 duplicate, 5 snapshot.
var errorCodes = map[model.ErrorCode]string{
	model.CodeEmptyName:           "E101",
	model.CodeInvalidPrice:        "E102",
	model.CodeInvalidQuantity:     "E103",
	model.CodeInvalidNumber:       "E104",
	model.CodeNoTableSelected:     "E105",
	model.CodeEmptyBill:           "E106",
	model.CodeBillNotFound:        "E201",
	model.CodeUnknownCategory:     "E202",
	model.CodeItemIndexOutOfRange: "E203",
	model.CodeBillNotPending:      "E301",
	model.CodeDuplicateCategory:   "E401",
	model.CodeDuplicateTable:      "E402",
	model.CodeInvalidSnapshot:     "E501",
}

// CodeCommandError is the CLI code for errors that are not domain errors.
const CodeCommandError = "E001"

// CodeScenarioFailed reports a scenario run with at least one failure.
const CodeScenarioFailed = "E002"

// CLICode returns the CLI error code for a domain error code.
func CLICode(code model.ErrorCode) string {
	if c, ok := errorCodes[code]; ok {
		return c
	}
	return CodeCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E101", "E201", etc.
	Kind    string `json:"kind,omitempty"`    // domain error kind
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println, so views implement
// fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	return f.writeError(&CLIError{Code: code, Message: message, Details: details})
}

func (f *OutputFormatter) writeError(e *CLIError) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  e,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", e.Code, e.Message)
	if f.Verbose && e.Details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", e.Details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// Domain errors map to their CLI code and ExitFailure; anything else is a
// command error. An error that is already an ExitError keeps its code.
func (f *OutputFormatter) Fail(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return err
	}

	var de *model.Error
	if errors.As(err, &de) {
		e := &CLIError{Code: CLICode(de.Code), Kind: string(de.Kind), Message: de.Message}
		if len(de.Details) > 0 {
			e.Details = de.Details
		}
		if werr := f.writeError(e); werr != nil {
			return werr
		}
		return &ExitError{Code: ExitFailure, Message: string(de.Code), Err: err, Reported: true}
	}

	code := ExitCommandError
	if exitErr != nil {
		code = exitErr.Code
	}
	if werr := f.writeError(&CLIError{Code: CodeCommandError, Message: err.Error()}); werr != nil {
		return werr
	}
	return &ExitError{Code: code, Message: "command failed", Err: err, Reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
