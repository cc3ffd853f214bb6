package conns

import "errors"

// ErrNotDeclared is returned when no configuration file declares the
// requested connection name.
var ErrNotDeclared = errors.New("connection not declared")

// ErrInvalidPort is returned when a filled configuration's port is not an integer.
var ErrInvalidPort = errors.New("invalid port")
