// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameWalletTransfer   = errors.New("cannot transfer to the same wallet")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrPartyNotFound        = errors.New("party not found")
	ErrAlreadyCompleted     = errors.New("transaction is already completed")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	ErrTransferFailed       = errors.New("transfer failed")
	ErrDuplicateEntry       = errors.New("duplicate entry")
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
