// Package models defines the core domain models for the trip ledger.
//
// # Models
//
//   - Trip: a shared ledger owned by one account, with a roster of members
//   - Member: a named participant and its derived net balance
//   - Transaction: one expense event with payers, participants and a split rule
//   - SettlementResult: transfers that clear every balance of a trip
//   - User: a registered account that owns trips
//
// # Design Principles
//
//  1. Members are identified by name, compared case-insensitively after trimming
//  2. Balances are derived data, always rebuilt from the full transaction log
//  3. Relationships use ID strings instead of pointers
//  4. Timestamps are Unix seconds
package models
