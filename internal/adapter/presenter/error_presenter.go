package presenter

import (
	apperrors "github.com/johnquangdev/meeting-archive/errors"
)

// Error renders any error returned by a use case as tool output text
func Error(err error) string {
	return apperrors.FromError(err).Text()
}
