package qoi

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

func init() {
	image.RegisterFormat("qoi", qoiMagic, Decode, DecodeConfig)
}

// Decode reads a QOI image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read the image: %w", err)
	}
	header, raster, err := DecodePixels(data, ChannelsRGBA)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image body: %w", err)
	}
	return &image.NRGBA{
		Pix:    raster,
		Stride: 4 * int(header.Width),
		Rect:   image.Rect(0, 0, int(header.Width), int(header.Height)),
	}, nil
}

// DecodeConfig returns the color model and dimensions of a QOI image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(header.Width),
		Height:     int(header.Height),
	}, nil
}

// DecodePixels decompresses a complete QOI stream into a packed row-major
// raster with targetChannels channels per pixel. The header's own channel
// byte is informational: a four-channel stream decoded with target 3 drops
// alpha, and a three-channel stream decoded with target 4 reports alpha 255.
func DecodePixels(data []byte, targetChannels uint8) (Header, []byte, error) {
	if targetChannels != ChannelsRGB && targetChannels != ChannelsRGBA {
		return Header{}, nil, errors.Wrapf(ErrBadChannels, "target %d", targetChannels)
	}
	header, err := parseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	src := data[headerLength:]
	raster := make([]byte, header.rasterLength(targetChannels))

	var window [windowLength]pixel
	cur := pixel{0, 0, 0, 255}
	stride := int(targetChannels)
	pos := 0
	run := 0

	for off := 0; off < len(raster); off += stride {
		switch {
		case run > 0:
			run--
		case pos >= len(src):
			return Header{}, nil, errors.Wrapf(ErrUnexpectedEof, "stream ended at pixel %d of %d", off/stride, header.pixels())
		default:
			tag := src[pos]
			pos++
			switch {
			case tag == qoi_OP_RGB:
				if pos+3 > len(src) {
					return Header{}, nil, errors.Wrap(ErrUnexpectedEof, "inside an RGB chunk")
				}
				cur[0], cur[1], cur[2] = src[pos], src[pos+1], src[pos+2]
				pos += 3
				window[cur.Hash()] = cur
			case tag == qoi_OP_RGBA:
				if pos+4 > len(src) {
					return Header{}, nil, errors.Wrap(ErrUnexpectedEof, "inside an RGBA chunk")
				}
				cur[0], cur[1], cur[2], cur[3] = src[pos], src[pos+1], src[pos+2], src[pos+3]
				pos += 4
				window[cur.Hash()] = cur
			default:
				switch tag & qoi_2B_MASK {
				case qoi_OP_INDEX:
					// The window already holds this pixel at its own slot, so
					// no write-back happens here.
					cur = window[tag&qoi_6B_MASK]
				case qoi_OP_DIFF:
					r, g, b := getDIFFValues(tag)
					cur.Add(r, g, b)
					window[cur.Hash()] = cur
				case qoi_OP_LUMA:
					if pos >= len(src) {
						return Header{}, nil, errors.Wrap(ErrUnexpectedEof, "inside a LUMA chunk")
					}
					r, g, b := getLUMAValues(tag, src[pos])
					pos++
					cur.Add(r, g, b)
					window[cur.Hash()] = cur
				case qoi_OP_RUN:
					// This pixel plus run more copies of the previous one.
					// The window stays untouched: the previous pixel is
					// already cached at its slot.
					run = int(tag & qoi_6B_MASK)
				}
			}
		}

		raster[off], raster[off+1], raster[off+2] = cur.R(), cur.G(), cur.B()
		if stride == 4 {
			raster[off+3] = cur.A()
		}
	}

	rest := src[pos:]
	if len(rest) < len(terminator) {
		return Header{}, nil, errors.Wrapf(ErrBadTerminator, "%d trailing bytes, want %d", len(rest), len(terminator))
	}
	if !bytes.Equal(rest[:len(terminator)], terminator[:]) {
		return Header{}, nil, errors.Wrapf(ErrBadTerminator, "% x", rest[:len(terminator)])
	}
	if len(rest) > len(terminator) {
		return Header{}, nil, errors.Wrapf(ErrTrailingGarbage, "%d bytes beyond the terminator", len(rest)-len(terminator))
	}
	return header, raster, nil
}

func getDIFFValues(diff byte) (byte, byte, byte) {
	return diff & 0b00110000 >> 4 - diffBias, diff & 0b00001100 >> 2 - diffBias, diff & 0b00000011 - diffBias
}

func getLUMAValues(b1, b2 byte) (byte, byte, byte) {
	diffGreen := b1&qoi_6B_MASK - lumaGreenBias
	diffRed := diffGreen + (b2 & 0b11110000 >> 4) - lumaBias
	diffBlue := diffGreen + (b2 & 0b00001111) - lumaBias
	return diffRed, diffGreen, diffBlue
}
