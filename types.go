package qoir

// Rectangle is a clip region: (X0,Y0) inclusive to (X1,Y1) exclusive.
type Rectangle struct {
	X0, Y0, X1, Y1 int32
}

// Rect is shorthand for constructing a Rectangle.
func Rect(x0, y0, x1, y1 int32) Rectangle {
	return Rectangle{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rectangle) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Image is a non-owning view of pixel data. Pixels holds at least
// Height*StrideInBytes bytes; each row starts StrideInBytes after the
// previous one and its first Width*BytesPerPixel bytes are meaningful.
//
// An Image never owns Pixels. Views obtained from a DecodedImage stay valid
// only until the image's last clone is closed.
type Image struct {
	Pixels        []byte
	Width         uint32
	Height        uint32
	PixelFormat   PixelFormat
	StrideInBytes int
}

// validate fails fast on shape violations so malformed views never reach
// the engine.
func (m *Image) validate() error {
	bpp := m.PixelFormat.BytesPerPixel()
	if bpp == 0 {
		return ErrInvalidParameter
	}
	if m.Width == 0 || m.Height == 0 {
		return ErrInvalidParameter
	}
	if m.StrideInBytes < int(m.Width)*bpp {
		return ErrInvalidParameter
	}
	if len(m.Pixels) < int(m.Height)*m.StrideInBytes {
		return ErrInvalidParameter
	}
	return nil
}

// EncodeOptions control encoding. The metadata blobs are optional opaque
// byte ranges carried through the stream unmodified; nil or empty means
// absent. Lossiness trades size for fidelity: 0 is lossless, 7 is the most
// lossy. Dither has no effect when Lossiness is 0.
type EncodeOptions struct {
	CICPProfile []byte
	ICCProfile  []byte
	EXIF        []byte
	XMP         []byte

	Lossiness uint8
	Dither    bool
}

func (o *EncodeOptions) validate() error {
	if o.Lossiness > 7 {
		return ErrInvalidParameter
	}
	return nil
}

// DecodeOptions control decoding. A zero PixelFormat decodes to
// PixelFormatRGBANonPremul. A nil clip rectangle means clipping is disabled;
// a non-nil rectangle is applied even when empty, which fails the decode.
// OffsetX/OffsetY place the top-left corner of the source region in
// destination space (the Y axis grows down); the offset is only observable
// together with DstClipRect.
type DecodeOptions struct {
	PixelFormat PixelFormat

	SrcClipRect *Rectangle
	DstClipRect *Rectangle

	OffsetX int32
	OffsetY int32
}

// DefaultDecodeOptions returns the options used when none are specified:
// RGBA non-premultiplied output, no clipping, no offset.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{PixelFormat: PixelFormatRGBANonPremul}
}

func (o *DecodeOptions) validate() error {
	if o.PixelFormat != PixelFormatInvalid && o.PixelFormat.BytesPerPixel() == 0 {
		return ErrInvalidParameter
	}
	return nil
}
