// Package models defines the core domain models for the shared-expense
// ledger.
//
// # Models
//
//   - User: a registered account; the acting identity behind every request
//   - Group: a shared-expense group with a single owning creator
//   - Member: a participant row inside a group, optionally linked to a User
//   - Expense: a group expense with its payer and split rows
//   - Settlement: a recorded real-world transfer between two members
//   - MemberBalance: derived per-member balance (never stored)
//   - Transfer: a suggested debtor-to-creditor payment
//
// # Design Principles
//
//  1. **Derived state is a query**: balances and settlement plans are
//     recomputed from the raw records on demand; no running balance is ever
//     persisted, so there is nothing to keep consistent.
//  2. **Avoid circular references**: relationships use ID strings instead of
//     pointers.
//  3. **Append-only settlements**: a settlement is never edited; correcting
//     one means deleting it, which reverses its effect on the balances.
package models
