package emitter

import "errors"

var (
	ErrUnknownFormat  = errors.New("unknown output format")
	ErrUnknownBSSMode = errors.New("unknown bss mode")
)
