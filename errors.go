package touchtable

import "errors"

// ErrParseScript is returned, wrapped, when an input script cannot be loaded.
var ErrParseScript = errors.New("parse input script")

// ErrParseLayout is returned, wrapped, when a table layout cannot be loaded.
var ErrParseLayout = errors.New("parse table layout")
