package protocol

import "errors"

var (
	ErrMalformed = errors.New("malformed routing message")
	ErrWrongKind = errors.New("unexpected message kind")
)
