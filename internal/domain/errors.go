package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWalletID is returned when a wallet id is empty after canonicalization
	ErrInvalidWalletID = errors.New("invalid wallet id")

	// ErrInvalidPagination is returned when a page request has a non-positive limit or a negative skip
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrInvalidAssetKind is returned when an asset kind is neither nft nor uniq
	ErrInvalidAssetKind = errors.New("invalid asset kind")

	// ErrTokenUnavailable is returned when the auth endpoint does not hand out an access token
	ErrTokenUnavailable = errors.New("access token unavailable")

	// ErrTokenExpired is returned when the auth endpoint hands out an already expired token
	ErrTokenExpired = errors.New("access token expired")
)

// FetchError is a transport or GraphQL-reported failure during a page fetch.
// Message carries the upstream message verbatim.
type FetchError struct {
	Op      string
	Message string
	Err     error
}

// NewFetchError creates a FetchError for the given operation
func NewFetchError(op string, message string, err error) *FetchError {
	return &FetchError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is or wraps a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
