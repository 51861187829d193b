package qoi

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeStream assembles header + chunks + terminator for hand-written test inputs.
func makeStream(header Header, body ...byte) []byte {
	out := header.appendTo(nil)
	out = append(out, body...)
	return append(out, terminator[:]...)
}

func TestDecodeSinglePixelStream(t *testing.T) {
	header := Header{Width: 1, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	decodedHeader, raster, err := DecodePixels(makeStream(header, 0xC0), ChannelsRGBA)
	require.NoError(t, err)
	assert.Equal(t, header, decodedHeader)
	assert.Equal(t, []byte{0, 0, 0, 255}, raster)
}

func TestDecodeChunkKinds(t *testing.T) {
	header := Header{Width: 6, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header,
		0xFE, 10, 20, 30, // RGB
		0x76,               // DIFF +1,-1,0
		0xAA, 0x63,         // LUMA dg=10, dr-dg=-2, db-dg=-5
		0xFF, 1, 2, 3, 200, // RGBA
		qoi_OP_RUN|0,          // run of 1, repeats the RGBA pixel
		qoi_OP_INDEX|pixel{10, 20, 30, 255}.Hash(), // back to the first pixel
	)

	_, raster, err := DecodePixels(data, ChannelsRGBA)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		10, 20, 30, 255,
		11, 19, 30, 255,
		19, 29, 35, 255,
		1, 2, 3, 200,
		1, 2, 3, 200,
		10, 20, 30, 255,
	}, raster)
}

func TestDecodeRunExpansion(t *testing.T) {
	header := Header{Width: 62, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header, 0xFD) // maximal run of the initial previous pixel

	_, raster, err := DecodePixels(data, ChannelsRGBA)
	require.NoError(t, err)
	require.Len(t, raster, 62*4)
	for off := 0; off < len(raster); off += 4 {
		require.Equal(t, []byte{0, 0, 0, 255}, raster[off:off+4])
	}
}

func TestDecodeChannelConversion(t *testing.T) {
	header := Header{Width: 2, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header,
		0xFF, 10, 20, 30, 128,
		0xFE, 40, 50, 60,
	)

	t.Run("drop alpha", func(t *testing.T) {
		_, raster, err := DecodePixels(data, ChannelsRGB)
		require.NoError(t, err)
		assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, raster)
	})

	t.Run("synthesize alpha", func(t *testing.T) {
		threeHeader := Header{Width: 2, Height: 1, Channels: ChannelsRGB, Colorspace: ColorspaceSRGB}
		threeData := makeStream(threeHeader,
			0xFE, 10, 20, 30,
			0xFE, 40, 50, 60,
		)
		_, raster, err := DecodePixels(threeData, ChannelsRGBA)
		require.NoError(t, err)
		assert.Equal(t, []byte{10, 20, 30, 255, 40, 50, 60, 255}, raster)
	})
}

func TestDecodeHeaderValidation(t *testing.T) {
	valid := makeStream(Header{Width: 1, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}, 0xC0)

	t.Run("bad magic", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[0] = 'x'
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("zero dimensions", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[7] = 0 // width -> 0
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadDimensions)
	})

	t.Run("bad channel byte", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[12] = 7
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadChannels)
	})

	t.Run("bad colorspace byte", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[13] = 9
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadColorspace)
	})

	t.Run("bad target channels", func(t *testing.T) {
		_, _, err := DecodePixels(valid, 5)
		assert.ErrorIs(t, err, ErrBadChannels)
	})
}

func TestDecodeTerminatorEnforcement(t *testing.T) {
	header := Header{Width: 1, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	valid := makeStream(header, 0xC0)

	t.Run("missing", func(t *testing.T) {
		_, _, err := DecodePixels(valid[:len(valid)-1], ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadTerminator)
	})

	t.Run("altered", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[len(data)-1] = 2
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadTerminator)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		data := append(append([]byte(nil), valid...), 0xAB)
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrTrailingGarbage)
	})
}

func TestDecodeUnexpectedEof(t *testing.T) {
	header := Header{Width: 4, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}

	t.Run("no chunks at all", func(t *testing.T) {
		_, _, err := DecodePixels(header.appendTo(nil), ChannelsRGBA)
		assert.ErrorIs(t, err, ErrUnexpectedEof)
	})

	t.Run("mid RGB chunk", func(t *testing.T) {
		data := append(header.appendTo(nil), 0xFE, 10)
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrUnexpectedEof)
	})

	t.Run("mid LUMA chunk", func(t *testing.T) {
		data := append(header.appendTo(nil), 0xAA)
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrUnexpectedEof)
	})

	t.Run("too few chunks", func(t *testing.T) {
		// The missing pixels swallow the terminator bytes as INDEX chunks,
		// so the damage surfaces at the terminator check.
		data := append(header.appendTo(nil), 0xFE, 10, 20, 30)
		data = append(data, terminator[:]...)
		_, _, err := DecodePixels(data, ChannelsRGBA)
		assert.ErrorIs(t, err, ErrBadTerminator)
	})
}

func TestDecodeWindowAsymmetry(t *testing.T) {
	// RUN chunks leave the window untouched. Opaque black lands in slot 53
	// via its RGB chunk, white in slot 38; after the run of whites the INDEX
	// chunk must still find black in its slot.
	black := pixel{0, 0, 0, 255}
	white := pixel{255, 255, 255, 255}
	header := Header{Width: 5, Height: 1, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header,
		0xFE, 0, 0, 0, // black -> window[53]
		0xFE, 255, 255, 255, // white -> window[38]
		qoi_OP_RUN|1, // two more whites
		qoi_OP_INDEX|black.Hash(),
	)

	_, raster, err := DecodePixels(data, ChannelsRGBA)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		black.R(), black.G(), black.B(), black.A(),
		white.R(), white.G(), white.B(), white.A(),
		white.R(), white.G(), white.B(), white.A(),
		white.R(), white.G(), white.B(), white.A(),
		black.R(), black.G(), black.B(), black.A(),
	}, raster)
}

func TestDecodeImage(t *testing.T) {
	header := Header{Width: 2, Height: 2, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header,
		0xFE, 10, 20, 30,
		qoi_OP_RUN|2,
	)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoErrorf(t, err, "Could not decode the QOI test image: %v", err)
	assert.Equal(t, "qoi", format)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.At(1, 1))
}

func TestDecodeConfig(t *testing.T) {
	header := Header{Width: 492, Height: 445, Channels: ChannelsRGBA, Colorspace: ColorspaceSRGB}
	data := makeStream(header, 0xC0)

	cfg, err := DecodeConfig(bytes.NewReader(data))
	require.NoErrorf(t, err, "Could not decode the config: %v", err)
	assert.Equal(t, 492, cfg.Width)
	assert.Equal(t, 445, cfg.Height)
	assert.Equal(t, color.NRGBAModel, cfg.ColorModel)
}
