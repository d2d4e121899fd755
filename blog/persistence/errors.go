package persistence

import (
	"errors"
	"fmt"

	"github.com/dfryer1193/postboard/blog/domain"
)

// asStorageFailure makes sure err matches domain.ErrStorageFailure; errors
// raised by the transaction helpers themselves are not yet classified.
func asStorageFailure(err error) error {
	if err == nil || errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}
