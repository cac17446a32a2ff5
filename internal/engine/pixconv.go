package engine

// Raw pixel format codes as carried in the container header. The low two
// bits describe alpha (0=padding byte, 2=non-premultiplied, 3=premultiplied)
// and the high nibble the channel order.
const (
	PixFmtInvalid       uint32 = 0x00
	PixFmtBGRX          uint32 = 0x01
	PixFmtBGRANonPremul uint32 = 0x02
	PixFmtBGRAPremul    uint32 = 0x03
	PixFmtBGR           uint32 = 0x11
	PixFmtRGBX          uint32 = 0x21
	PixFmtRGBANonPremul uint32 = 0x22
	PixFmtRGBAPremul    uint32 = 0x23
	PixFmtRGB           uint32 = 0x31
)

// Supported reports whether pixfmt is one of the eight concrete formats.
func Supported(pixfmt uint32) bool {
	return BytesPerPixel(pixfmt) != 0
}

// BytesPerPixel returns 3 or 4, or 0 for an unknown code.
func BytesPerPixel(pixfmt uint32) int {
	switch pixfmt {
	case PixFmtBGRX, PixFmtBGRANonPremul, PixFmtBGRAPremul,
		PixFmtRGBX, PixFmtRGBANonPremul, PixFmtRGBAPremul:
		return 4
	case PixFmtBGR, PixFmtRGB:
		return 3
	}
	return 0
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

func unpremultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// loadPixel reads one pixel in pixfmt from p and returns it as
// non-premultiplied RGBA. p must hold at least BytesPerPixel bytes.
func loadPixel(pixfmt uint32, p []byte) (r, g, b, a uint8) {
	switch pixfmt {
	case PixFmtBGRX:
		return p[2], p[1], p[0], 0xFF
	case PixFmtBGRANonPremul:
		return p[2], p[1], p[0], p[3]
	case PixFmtBGRAPremul:
		a = p[3]
		return unpremultiply(p[2], a), unpremultiply(p[1], a), unpremultiply(p[0], a), a
	case PixFmtBGR:
		return p[2], p[1], p[0], 0xFF
	case PixFmtRGBX:
		return p[0], p[1], p[2], 0xFF
	case PixFmtRGBANonPremul:
		return p[0], p[1], p[2], p[3]
	case PixFmtRGBAPremul:
		a = p[3]
		return unpremultiply(p[0], a), unpremultiply(p[1], a), unpremultiply(p[2], a), a
	case PixFmtRGB:
		return p[0], p[1], p[2], 0xFF
	}
	return 0, 0, 0, 0
}

// storePixel writes a non-premultiplied RGBA pixel into p in pixfmt.
// Padding bytes of the X formats are written as 0xFF.
func storePixel(pixfmt uint32, p []byte, r, g, b, a uint8) {
	switch pixfmt {
	case PixFmtBGRX:
		p[0], p[1], p[2], p[3] = b, g, r, 0xFF
	case PixFmtBGRANonPremul:
		p[0], p[1], p[2], p[3] = b, g, r, a
	case PixFmtBGRAPremul:
		p[0], p[1], p[2], p[3] = premultiply(b, a), premultiply(g, a), premultiply(r, a), a
	case PixFmtBGR:
		p[0], p[1], p[2] = b, g, r
	case PixFmtRGBX:
		p[0], p[1], p[2], p[3] = r, g, b, 0xFF
	case PixFmtRGBANonPremul:
		p[0], p[1], p[2], p[3] = r, g, b, a
	case PixFmtRGBAPremul:
		p[0], p[1], p[2], p[3] = premultiply(r, a), premultiply(g, a), premultiply(b, a), a
	case PixFmtRGB:
		p[0], p[1], p[2] = r, g, b
	}
}
