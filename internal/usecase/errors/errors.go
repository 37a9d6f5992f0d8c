package errors

import (
	"errors"
	"fmt"
)

// Taxonomy errors. Every specific error below wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSourceUnavailable  = errors.New("transcript source unavailable")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMalformedDocument  = errors.New("malformed source document")
)

// Lookup errors
var (
	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)
	ErrMeetingNotFound = fmt.Errorf("meeting %w", ErrNotFound)
	ErrContextNotFound = fmt.Errorf("context document %w", ErrNotFound)
	ErrAliasNotFound   = fmt.Errorf("alias %w", ErrNotFound)
	ErrLinkNotFound    = fmt.Errorf("integration link %w", ErrNotFound)
	ErrSeriesNotFound  = fmt.Errorf("meeting series %w", ErrNotFound)
)

// Directory errors
var (
	ErrSameClient        = fmt.Errorf("%w: source and target are the same client", ErrConflict)
	ErrClientNameTaken   = fmt.Errorf("%w: client name already in use", ErrConflict)
	ErrAliasCollision    = fmt.Errorf("%w: alias collides with an existing name", ErrConflict)
	ErrLinkTaken         = fmt.Errorf("%w: external id already linked to another client", ErrConflict)
	ErrDuplicateDocument = fmt.Errorf("%w: document already archived", ErrConflict)
)

// Input errors
var (
	ErrEmptyQuery       = fmt.Errorf("%w: search query must not be empty", ErrInvalidArgument)
	ErrEmptyName        = fmt.Errorf("%w: name must not be empty", ErrInvalidArgument)
	ErrInvalidScope     = fmt.Errorf("%w: unknown search scope", ErrInvalidArgument)
	ErrInvalidKind      = fmt.Errorf("%w: unknown integration kind", ErrInvalidArgument)
	ErrInvalidContextTy = fmt.Errorf("%w: unknown context document type", ErrInvalidArgument)
)
