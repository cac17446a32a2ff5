// Package qoir encodes and decodes QOIR-like images.
//
// The package is a safe front-end over an internal codec engine. Each
// decode or encode call produces one engine allocation backing every slice
// the call returns: the pixel view of a DecodedImage, its metadata blobs,
// and the Data of an EncodedBuffer are all borrowed sub-ranges of that
// allocation. Handles share the allocation through reference counting —
// Clone adds a share, Close drops one — and the memory is released exactly
// once, when the last share is closed. Reading a borrowed slice after the
// last Close is a use-after-release bug.
//
// Decoding:
//
//	img, err := qoir.Decode("input.qoir", qoir.DefaultDecodeOptions())
//	if err != nil {
//		return err
//	}
//	defer img.Close()
//	process(img.Image.Pixels)
//
// Encoding:
//
//	view := qoir.Image{
//		Pixels:        pix,
//		Width:         w,
//		Height:        h,
//		PixelFormat:   qoir.PixelFormatRGBANonPremul,
//		StrideInBytes: int(w) * 4,
//	}
//	buf, err := qoir.EncodeToFile(view, qoir.EncodeOptions{}, "out.qoir")
//	if err != nil {
//		return err
//	}
//	buf.Close()
//
// All operations are synchronous; a decoded allocation is never mutated
// after creation, so clones may be read from multiple goroutines without
// locking.
package qoir
