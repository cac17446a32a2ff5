package qoir

import "qoir/internal/engine"

// PixelFormat identifies a raw pixel layout. The numeric values match the
// codes carried in the encoded stream: the low two bits describe alpha
// (padding byte, non-premultiplied or premultiplied) and the high nibble the
// channel order.
type PixelFormat uint32

const (
	PixelFormatInvalid       PixelFormat = 0x00
	PixelFormatBGRX          PixelFormat = 0x01
	PixelFormatBGRANonPremul PixelFormat = 0x02
	PixelFormatBGRAPremul    PixelFormat = 0x03
	PixelFormatBGR           PixelFormat = 0x11
	PixelFormatRGBX          PixelFormat = 0x21
	PixelFormatRGBANonPremul PixelFormat = 0x22
	PixelFormatRGBAPremul    PixelFormat = 0x23
	PixelFormatRGB           PixelFormat = 0x31
)

// PixelFormatFromRaw maps a raw format code to a PixelFormat. Unknown codes
// map to PixelFormatInvalid; the function never fails.
func PixelFormatFromRaw(code uint32) PixelFormat {
	if engine.Supported(code) {
		return PixelFormat(code)
	}
	return PixelFormatInvalid
}

// BytesPerPixel returns 3 or 4. It returns 0 for PixelFormatInvalid, which
// has no byte layout.
func (f PixelFormat) BytesPerPixel() int {
	return engine.BytesPerPixel(uint32(f))
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBGRX:
		return "BGRX"
	case PixelFormatBGRANonPremul:
		return "BGRANonPremul"
	case PixelFormatBGRAPremul:
		return "BGRAPremul"
	case PixelFormatBGR:
		return "BGR"
	case PixelFormatRGBX:
		return "RGBX"
	case PixelFormatRGBANonPremul:
		return "RGBANonPremul"
	case PixelFormatRGBAPremul:
		return "RGBAPremul"
	case PixelFormatRGB:
		return "RGB"
	}
	return "Invalid"
}
