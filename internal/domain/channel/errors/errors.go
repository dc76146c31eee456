package errors

import (
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

var (
	// ErrIdentityAlreadyExists is returned when an identity for the channel key is already stored
	ErrIdentityAlreadyExists = pkgerrors.NewDuplicateError("channel identity already exists")

	// ErrInvalidChannelKey is returned when the channel key is empty
	ErrInvalidChannelKey = pkgerrors.NewValidationError("invalid channel key")
)
