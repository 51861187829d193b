package qoi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Header is the fixed 14-byte preamble of a QOI stream. The channel and
// colorspace bytes are metadata: the decoder honors the caller-requested
// raster shape regardless of what the header announces.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8
	Colorspace uint8
}

func (h Header) validate() error {
	if h.Width == 0 || h.Height == 0 {
		return errors.Wrapf(ErrBadDimensions, "%dx%d", h.Width, h.Height)
	}
	if uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return errors.Wrapf(ErrBadDimensions, "%dx%d exceeds %d pixels", h.Width, h.Height, MaxPixels)
	}
	if h.Channels != ChannelsRGB && h.Channels != ChannelsRGBA {
		return errors.Wrapf(ErrBadChannels, "%d", h.Channels)
	}
	if h.Colorspace != ColorspaceSRGB && h.Colorspace != ColorspaceLinear {
		return errors.Wrapf(ErrBadColorspace, "%d", h.Colorspace)
	}
	return nil
}

// pixels returns the pixel count. validate keeps it within MaxPixels, so the
// product fits an int on every platform Go supports.
func (h Header) pixels() int {
	return int(h.Width) * int(h.Height)
}

func (h Header) rasterLength(channels uint8) int {
	return h.pixels() * int(channels)
}

func (h Header) appendTo(dst []byte) []byte {
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], h.Width)
	binary.BigEndian.PutUint32(dims[4:], h.Height)
	dst = append(dst, qoiMagic...)
	dst = append(dst, dims[:]...)
	return append(dst, h.Channels, h.Colorspace)
}

// ReadHeader reads and validates the 14-byte header without touching the
// chunk stream.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, errors.Wrap(ErrUnexpectedEof, "header")
	}
	return parseHeader(buf[:])
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < headerLength {
		return Header{}, errors.Wrapf(ErrUnexpectedEof, "header needs %d bytes, have %d", headerLength, len(data))
	}
	if string(data[:4]) != qoiMagic {
		return Header{}, errors.Wrapf(ErrBadMagic, "%q", data[:4])
	}
	header := Header{
		Width:      binary.BigEndian.Uint32(data[4:8]),
		Height:     binary.BigEndian.Uint32(data[8:12]),
		Channels:   data[12],
		Colorspace: data[13],
	}
	if err := header.validate(); err != nil {
		return Header{}, err
	}
	return header, nil
}
