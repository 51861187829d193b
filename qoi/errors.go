package qoi

import "errors"

// The codec surfaces every failure as one of these kinds, possibly wrapped
// with context. Match with errors.Is.
var (
	ErrBadMagic        = errors.New("qoi: bad magic")
	ErrBadDimensions   = errors.New("qoi: bad dimensions")
	ErrBadChannels     = errors.New("qoi: bad channel count")
	ErrBadColorspace   = errors.New("qoi: bad colorspace")
	ErrUnexpectedEof   = errors.New("qoi: unexpected end of input")
	ErrBadTerminator   = errors.New("qoi: bad stream terminator")
	ErrTrailingGarbage = errors.New("qoi: data after stream terminator")
	ErrShortInput      = errors.New("qoi: pixel buffer size mismatch")
	ErrOutputOversized = errors.New("qoi: output exceeds size bound")
)
