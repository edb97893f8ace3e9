// Package models defines the core domain models for the expense server.
//
// Ownership follows the aggregate boundaries the storage layer relies on:
//   - Group owns its Members.
//   - Expense owns its Splits.
//   - A Split weak-references a group Member by user ID; it never owns it.
//
// All monetary values use decimal.Decimal rather than float64 so that the
// exact-equality checks on split sums (see calculator) are meaningful.
package models
