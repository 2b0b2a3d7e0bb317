// Package harness runs scripted bill scenarios against the real engine,
// catalog and SQLite store and checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: complete_freezes_bill
//	description: "A completed bill rejects further edits"
//	start: 2024-05-01T09:00:00Z   # optional clock origin
//	step: 1m                      # optional clock step per read
//	setup:
//	  - action: Tables.add
//	    args: { table: Patio }
//	flow:
//	  - invoke: Bills.create
//	    args:
//	      table: "5"
//	      items: [{ name: Espresso, price: 80, quantity: 1 }]
//	    expect:
//	      case: Success
//	      result: { id: BILL-1, totalAmount: 80 }
//	  - invoke: Bills.addItem
//	    args: { bill: BILL-1, name: Espresso, price: 80 }
//	assertions:
//	  - type: final_state
//	    table: bills
//	    where: { id: BILL-1 }
//	    expect: { totalAmount: 160 }
//
// A flow step without expect must succeed. Otherwise expect.case is
// "Success" or the error code the step must fail with (for example
// BillNotPending); expect.result is a subset match on the returned value.
//
// # Actions
//
// Bills.create, Bills.addItem, Bills.changeQuantity, Bills.setQuantity,
// Bills.removeItem, Bills.complete, Bills.cancel, Bills.prune, Bills.reset,
// Menu.addCategory, Menu.addProduct, Menu.editProduct, Menu.removeProduct,
// Menu.deleteCategory, Tables.add, Tables.save, Tables.get and
// Clock.advance. Item and product positions are 0-based.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: exactly one row of a state table matches where, and
//     has the expected fields
//   - row_count: N rows of a state table match where
//
// State tables are bills (one row per bill, plus itemCount), tables
// (id, position), categories (key, products) and products (category,
// position, name, price).
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory database, a step clock and sequential
// bill ids (BILL-1, BILL-2, ...), so identical scenarios yield identical
// traces and golden files.
package harness
