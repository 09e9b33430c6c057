package vault

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors classifying every way a call can fail. Calls either fully
// succeed or fail with exactly one of these, with zero partial state change.
// Failures carrying diagnostic fields are struct types (below) that match
// their sentinel through errors.Is.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrLimitExceeded       = errors.New("withdrawal limit exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrUnsupportedAsset    = errors.New("unsupported asset")
	ErrTransferFailed      = errors.New("transfer failed")
	ErrOracleCompromised   = errors.New("oracle compromised")
	ErrStalePrice          = errors.New("stale price")
	ErrSwapFailed          = errors.New("swap failed")
	ErrDeadlineExpired     = errors.New("deadline expired")
	ErrZeroAddress         = errors.New("zero address")
	ErrReentrantCall       = errors.New("reentrant call")
	ErrNotOracle           = errors.New("not an oracle ledger")
)

// LimitExceededError reports a withdrawal above the per-call ceiling.
type LimitExceededError struct {
	Requested Amount
	Allowed   Amount
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("withdrawal limit exceeded: requested %s, allowed %s", e.Requested, e.Allowed)
}
func (e *LimitExceededError) Is(target error) bool { return target == ErrLimitExceeded }

// InsufficientBalanceError reports a withdrawal above the caller's balance.
type InsufficientBalanceError struct {
	Available Amount
	Requested Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, requested %s", e.Available, e.Requested)
}
func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// CapacityExceededError reports a deposit that would push the custodied total
// over the global ceiling. Remaining is the headroom left, in the normalized
// unit.
type CapacityExceededError struct {
	Remaining Amount
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded: remaining %s", e.Remaining)
}
func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// UnsupportedAssetError reports an asset identifier absent from the registry.
type UnsupportedAssetError struct {
	ID string
}

func (e *UnsupportedAssetError) Error() string {
	return fmt.Sprintf("unsupported asset: %q", e.ID)
}
func (e *UnsupportedAssetError) Is(target error) bool { return target == ErrUnsupportedAsset }

// TransferFailedError reports a custody transfer that did not complete. Cause
// carries the mover's own error, or the recovered panic of a non-conforming
// mover implementation.
type TransferFailedError struct {
	Cause error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("transfer failed: %v", e.Cause)
}
func (e *TransferFailedError) Is(target error) bool { return target == ErrTransferFailed }
func (e *TransferFailedError) Unwrap() error        { return e.Cause }

// StalePriceError reports a price sample older than the feed heartbeat.
type StalePriceError struct {
	Age       time.Duration
	Heartbeat time.Duration
}

func (e *StalePriceError) Error() string {
	return fmt.Sprintf("stale price: sample is %s old, heartbeat is %s", e.Age, e.Heartbeat)
}
func (e *StalePriceError) Is(target error) bool { return target == ErrStalePrice }
