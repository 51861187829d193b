package qoi

type pixel [4]byte

func (p pixel) R() byte {
	return p[0]
}

func (p pixel) G() byte {
	return p[1]
}

func (p pixel) B() byte {
	return p[2]
}

func (p pixel) A() byte {
	return p[3]
}

func (p pixel) Hash() byte {
	return (p.R()*3 + p.G()*5 + p.B()*7 + p.A()*11) % windowLength
}

// Add shifts the color channels in place. Byte arithmetic wraps, which is
// exactly the modular update the chunk deltas require.
func (p *pixel) Add(r, g, b byte) {
	p[0] += r
	p[1] += g
	p[2] += b
}

// Minus returns the wrapped signed per-channel difference p - p2.
func (p pixel) Minus(p2 pixel) (r, g, b, a int8) {
	return int8(p.R() - p2.R()), int8(p.G() - p2.G()), int8(p.B() - p2.B()), int8(p.A() - p2.A())
}

// rasterPixel reads one pixel from a packed raster. Three-channel rasters get
// an implicit opaque alpha.
func rasterPixel(raster []byte, off, stride int) pixel {
	p := pixel{raster[off], raster[off+1], raster[off+2], 255}
	if stride == 4 {
		p[3] = raster[off+3]
	}
	return p
}
