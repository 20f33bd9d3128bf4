package credentials

import "errors"

// ErrInvalidArgument is returned when the settings map is absent or names an
// authentication scheme that does not exist.
// Use errors.Is(err, ErrInvalidArgument) to check for it.
var ErrInvalidArgument = errors.New("credentials: invalid argument")
