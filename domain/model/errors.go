package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no row matched; for the poster it is the normal empty case.
	ErrNotFound = errors.New("not found")

	ErrRefreshFailed     = errors.New("token refresh failed")
	ErrDownloadFailed    = errors.New("media download failed")
	ErrUploadFailed      = errors.New("upload failed")
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrUploadMalformed is a 2xx upload response that carries no video id.
	ErrUploadMalformed = fmt.Errorf("%w: response missing video id", ErrUploadFailed)

	ErrDuplicateSchedule   = errors.New("a post is already scheduled for this time")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
