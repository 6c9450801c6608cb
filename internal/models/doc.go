// Package models defines the core domain models for ArcWise.
//
// # Models
//
//   - Roster: the fixed, ordered list of participant names for a session
//   - Expense: one person paying an amount on behalf of a subset of the roster
//   - Transfer: a computed instruction that one participant should pay another
//   - Settlement: a record that a Transfer was executed by the payment gateway
//
// Participants are identified by display name. Every name an Expense or
// Settlement references must be drawn from the Roster.
//
// # Money
//
// All amounts are decimal.Decimal values. Equal splits use decimal division,
// so residues far below a cent can remain; Epsilon is the tolerance below
// which a balance or transfer counts as settled.
package models
