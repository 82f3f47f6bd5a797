package theme

import (
	"errors"
	"fmt"
)

// Errors returned by theme operations.
var (
	// ErrInvalidArgument indicates a caller passed an unusable argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilRawTheme indicates CreateFromRawTheme was called without a theme.
	ErrNilRawTheme = fmt.Errorf("%w: raw theme is nil", ErrInvalidArgument)
)
