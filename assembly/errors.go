package assembly

import "errors"

// ErrParseAssembly is returned when an assembly definition cannot be read.
var ErrParseAssembly = errors.New("parse assembly")
