package hallconfig

import (
	"errors"
	"fmt"

	"retreatdesk/internal/layout"
)

var (
	ErrHallConfigMissing   = errors.New("session has no hall configuration")
	ErrHallConfigAmbiguous = errors.New("session has more than one hall configuration")
	ErrInvalidLayout       = errors.New("invalid hall layout")
)

// LayoutError carries the validation issues of a rejected layout.
type LayoutError struct {
	Issues []layout.Issue
}

func (e *LayoutError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidLayout.Error()
	}
	return fmt.Sprintf("%s: %s: %s (and %d more)", ErrInvalidLayout, e.Issues[0].Field, e.Issues[0].Message, len(e.Issues)-1)
}

func (e *LayoutError) Unwrap() error {
	return ErrInvalidLayout
}
