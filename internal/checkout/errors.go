package checkout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCart        = errors.New("invalid cart")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrTransactionFailure = errors.New("order transaction failed")
	ErrAuthorization      = errors.New("not authorized")
	ErrOrderNotFound      = errors.New("order not found")
)

// UnknownProductError names the product ids that do not exist.
type UnknownProductError struct {
	IDs []int64
}

func (e *UnknownProductError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s: %s", ErrUnknownProduct, strings.Join(ids, ", "))
}

func (e *UnknownProductError) Unwrap() error { return ErrUnknownProduct }

// TransactionError wraps a failure of the atomic order write. It matches
// both ErrTransactionFailure and the underlying cause.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransactionFailure, e.Err)
}

func (e *TransactionError) Unwrap() []error { return []error{ErrTransactionFailure, e.Err} }
