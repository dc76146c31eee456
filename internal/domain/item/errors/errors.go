package errors

import (
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

var (
	// ErrItemAlreadyRecorded is returned when the link is already in the ledger
	ErrItemAlreadyRecorded = pkgerrors.NewDuplicateError("item already recorded")

	// ErrInvalidLink is returned when an item has no link
	ErrInvalidLink = pkgerrors.NewValidationError("invalid item link")
)
