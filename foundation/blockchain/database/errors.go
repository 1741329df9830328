package database

import (
	"errors"
	"fmt"
)

// RejectError is returned when a proposed block is not added to the chain.
// It identifies the block and carries one of the rejection reasons so
// callers can test for it with errors.Is.
type RejectError struct {
	Hash   string
	Reason error
	Detail string
}

// Reject constructs a RejectError for the specified block.
func Reject(block Block, reason error, detail string) error {
	return &RejectError{
		Hash:   block.Hash,
		Reason: reason,
		Detail: detail,
	}
}

// Error implements the error interface.
func (re *RejectError) Error() string {
	return fmt.Sprintf("block %q is rejected: %s: %s", Short(re.Hash), re.Reason, re.Detail)
}

// Unwrap provides access to the rejection reason.
func (re *RejectError) Unwrap() error {
	return re.Reason
}

// IsRejected checks if an error of type RejectError exists.
func IsRejected(err error) bool {
	var re *RejectError
	return errors.As(err, &re)
}
