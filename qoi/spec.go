package qoi

const (
	qoi_OP_RGB   byte = 0b11111110
	qoi_OP_RGBA  byte = 0b11111111
	qoi_OP_INDEX byte = 0b00000000
	qoi_OP_DIFF  byte = 0b01000000
	qoi_OP_LUMA  byte = 0b10000000
	qoi_OP_RUN   byte = 0b11000000

	qoi_2B_MASK byte = 0b11000000
	qoi_6B_MASK byte = 0b00111111
)

const (
	diffBias      = 2
	lumaBias      = 8
	lumaGreenBias = 32
	runBias       = 1
)

// RUN lengths 63 and 64 would collide with the RGB/RGBA tag bytes.
const maxRunLength = 62

const windowLength = 64

const headerLength = 4 + 4 + 4 + 1 + 1

const qoiMagic = "qoif"

// terminator closes every valid QOI stream.
var terminator = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// MaxPixels bounds width*height before any raster or stream buffer is sized.
const MaxPixels = 400_000_000

// Values for the header's channel byte.
const (
	ChannelsRGB  uint8 = 3
	ChannelsRGBA uint8 = 4
)

// Values for the header's colorspace byte. The byte is informational and does
// not alter encoding or decoding.
const (
	ColorspaceSRGB   uint8 = 0
	ColorspaceLinear uint8 = 1
)
