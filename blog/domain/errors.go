package domain

import "errors"

var (
	// ErrStorageFailure wraps any failed write or read against persistence.
	ErrStorageFailure = errors.New("storage failure")
	ErrBlobNotFound   = errors.New("blob not found")
	// ErrAvatarFetch covers every way a remote avatar can fail to download.
	ErrAvatarFetch = errors.New("avatar fetch failed")
)
