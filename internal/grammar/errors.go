package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a caller passed an unusable argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilProvider is returned when a scope is pushed without a metadata provider.
	ErrNilProvider = fmt.Errorf("%w: metadata provider is nil", ErrInvalidArgument)
)
