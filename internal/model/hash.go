package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix leaves room for a
// future change of algorithm.
const (
	DomainSnapshot = "cafebill/snapshot/v1"
	DomainBill     = "cafebill/bill/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the content of a snapshot. BackupDate is excluded, so
// exporting the same state twice yields the same fingerprint, and an
// export/import round trip can be verified by comparing fingerprints.
// Category order does not contribute; canonical JSON sorts object keys.
func Fingerprint(s Snapshot) (string, error) {
	content := s
	content.BackupDate = nil
	if content.Bills == nil {
		content.Bills = []Bill{}
	}
	if content.Tables == nil {
		content.Tables = []string{}
	}
	canonical, err := MarshalCanonical(content)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// BillDigest hashes a single bill.
func BillDigest(b Bill) (string, error) {
	canonical, err := MarshalCanonical(b)
	if err != nil {
		return "", fmt.Errorf("BillDigest: %w", err)
	}
	return hashWithDomain(DomainBill, canonical), nil
}
