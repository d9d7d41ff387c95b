package models

import (
	"github.com/pkg/errors"
)

// Error kinds reported by the codec resolver and the diagnostic sink.
// Wrapped errors keep their kind: compare with errors.Cause(err) or errors.Is.
var (
	ErrUnsupportedArch = errors.New("unsupported architecture")
	ErrInvalidOutput   = errors.New("console must be true or false")
	ErrInvalidVerbose  = errors.New("invalid verbose level")
)
