package qoir

import (
	"errors"
	"fmt"
)

// The error taxonomy is closed. ErrDecodingFailed and ErrEncodingFailed are
// wrapped together with the engine's diagnostic text, so callers match the
// category with errors.Is and still see the message verbatim; the other
// three are returned as-is.
var (
	ErrInvalidParameter = errors.New("qoir: invalid parameter")
	ErrDecodingFailed   = errors.New("qoir: decoding failed")
	ErrEncodingFailed   = errors.New("qoir: encoding failed")
	ErrFileNotFound     = errors.New("qoir: file not found")
	ErrIO               = errors.New("qoir: i/o error")
)

func decodingFailed(msg string) error {
	return fmt.Errorf("%w: %s", ErrDecodingFailed, msg)
}

func encodingFailed(msg string) error {
	return fmt.Errorf("%w: %s", ErrEncodingFailed, msg)
}
