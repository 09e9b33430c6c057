// Package vault is the accounting and valuation engine of a custodial
// value-holding system. It keeps a multi-asset balance ledger for its users,
// converts foreign-denominated deposits into a single normalized accounting
// unit, and enforces a global capacity ceiling expressed in that unit.
//
// The core functionalities include:
//   - Ledger Management: atomic, reentrancy-safe deposit and withdrawal
//     operations over per-user balances, a per-call withdrawal ceiling and a
//     global custody ceiling.
//   - Valuation: pluggable strategies converting a deposited asset amount
//     into the normalized unit, either through a staleness-checked external
//     price feed or through a slippage/deadline-bounded exchange swap.
//   - Asset Registry: an append-only registry of accepted asset identifiers
//     with their denomination metadata.
//   - Audit Events: every completed state transition is emitted as an
//     immutable structured record consumable by external observers, and
//     persistable as JSONL for journal replay.
//
// Actual custody transfers, privileged-call authorization and audit storage
// are external collaborators injected at construction; the engine only ever
// talks to them through the narrow interfaces declared in this package.
//
// This package serves as the foundational logic for the `vaultctl`
// command-line tool.
package vault
