package qoi

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/pkg/errors"
)

// Encode writes the Image m to w in QOI format. Any Image may be encoded, but
// images that are not image.NRGBA might be encoded lossily.
func Encode(w io.Writer, m image.Image) error {
	return NewEncoder(w, m).Encode()
}

type Encoder struct {
	out io.Writer
	img *image.NRGBA

	// Colorspace is written into the header. It does not change the emitted
	// chunks; the zero value tags the stream as sRGB with linear alpha.
	Colorspace uint8
}

func NewEncoder(out io.Writer, img image.Image) *Encoder {
	return &Encoder{out: out, img: imageToNRGBA(img)}
}

func (enc *Encoder) Encode() error {
	bounds := enc.img.Bounds()
	header := Header{
		Width:      uint32(bounds.Dx()),
		Height:     uint32(bounds.Dy()),
		Channels:   ChannelsRGBA,
		Colorspace: enc.Colorspace,
	}
	stream, err := EncodePixels(header, enc.img.Pix)
	if err != nil {
		return fmt.Errorf("could not encode the image body: %w", err)
	}
	_, err = enc.out.Write(stream)
	return err
}

func imageToNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) && m.Stride == 4*m.Rect.Dx() {
		return m
	}
	bounds := img.Bounds()
	m := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(m, m.Bounds(), img, bounds.Min, draw.Src)
	return m
}

// EncodePixels compresses a packed row-major raster into a complete QOI
// stream: header, chunks, terminator. The raster length must be exactly
// header.Width * header.Height * header.Channels bytes; three-channel rasters
// are treated as opaque.
func EncodePixels(header Header, pixels []byte) ([]byte, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if want := header.rasterLength(header.Channels); len(pixels) != want {
		return nil, errors.Wrapf(ErrShortInput, "raster is %d bytes, want %d", len(pixels), want)
	}

	// Worst case is an RGBA chunk per pixel.
	bound := headerLength + header.pixels()*(int(header.Channels)+1) + len(terminator)
	out := make([]byte, 0, bound)
	out = header.appendTo(out)

	var window [windowLength]pixel
	prev := pixel{0, 0, 0, 255}
	run := 0
	stride := int(header.Channels)

	for off := 0; off < len(pixels); off += stride {
		cur := rasterPixel(pixels, off, stride)

		if cur == prev {
			run++
			if run == maxRunLength {
				out = append(out, qoi_OP_RUN|byte(run-runBias))
				run = 0
			}
			continue
		}
		if run > 0 {
			out = append(out, qoi_OP_RUN|byte(run-runBias))
			run = 0
		}

		// The window is probed before it is updated, so a pixel can never
		// index itself.
		idx := cur.Hash()
		if window[idx] == cur {
			out = append(out, qoi_OP_INDEX|idx)
			prev = cur
			continue
		}
		window[idx] = cur

		diffR, diffG, diffB, diffA := cur.Minus(prev)
		switch {
		case diffA != 0:
			out = append(out, qoi_OP_RGBA, cur.R(), cur.G(), cur.B(), cur.A())
		case withinDIFFSpec(diffR) && withinDIFFSpec(diffG) && withinDIFFSpec(diffB):
			out = append(out, qoi_OP_DIFF|byte(diffR+diffBias)<<4|byte(diffG+diffBias)<<2|byte(diffB+diffBias))
		case withinLUMAGreenSpec(diffG) && withinLUMASpec(diffR-diffG) && withinLUMASpec(diffB-diffG):
			out = append(out,
				qoi_OP_LUMA|byte(diffG+lumaGreenBias),
				byte(diffR-diffG+lumaBias)<<4|byte(diffB-diffG+lumaBias))
		default:
			out = append(out, qoi_OP_RGB, cur.R(), cur.G(), cur.B())
		}
		prev = cur
	}
	if run > 0 {
		out = append(out, qoi_OP_RUN|byte(run-runBias))
	}
	out = append(out, terminator[:]...)

	if len(out) > bound {
		return nil, errors.Wrapf(ErrOutputOversized, "%d bytes, bound %d", len(out), bound)
	}
	return out, nil
}

func withinDIFFSpec(v int8) bool {
	return v >= -2 && v <= 1
}

func withinLUMASpec(v int8) bool {
	return v >= -8 && v <= 7
}

func withinLUMAGreenSpec(v int8) bool {
	return v >= -32 && v <= 31
}
