package driver

import "errors"

// ErrUsage marks errors in the command line rather than in the source
var ErrUsage = errors.New("usage error")
