package qoir

import (
	"bufio"
	"io"
	"os"

	"qoir/internal/engine"
)

// DecodeFromMemory decodes a QOIR stream held in memory.
//
// The returned DecodedImage borrows its pixel and metadata slices from one
// engine allocation; call Close when done with it and every clone.
func DecodeFromMemory(data []byte, options DecodeOptions) (*DecodedImage, error) {
	return decodeFromMemory(data, options, engine.DefaultAllocator)
}

func decodeFromMemory(data []byte, options DecodeOptions, alloc engine.Allocator) (*DecodedImage, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}
	eo := engine.DecodeOptions{
		Alloc:   alloc,
		PixFmt:  uint32(options.PixelFormat),
		OffsetX: options.OffsetX,
		OffsetY: options.OffsetY,
	}
	if r := options.SrcClipRect; r != nil {
		eo.UseSrcClipRectangle = true
		eo.SrcClipRectangle = engine.Rectangle(*r)
	}
	if r := options.DstClipRect; r != nil {
		eo.UseDstClipRectangle = true
		eo.DstClipRectangle = engine.Rectangle(*r)
	}

	rec := engine.Decode(data, &eo)
	if rec.StatusMessage != "" {
		// Ownership of any partial allocation transfers here even on
		// failure.
		engine.Free(alloc, rec.OwnedMemory)
		return nil, decodingFailed(rec.StatusMessage)
	}
	owned := rec.OwnedMemory
	return newDecodedImage(&rec, func() { engine.Free(alloc, owned) }), nil
}

// Decode reads the file at path fully into memory and decodes it. Open
// failure maps to ErrFileNotFound, read failure to ErrIO.
func Decode(path string, options DecodeOptions) (*DecodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrFileNotFound
	}
	defer f.Close()
	data, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, ErrIO
	}
	return DecodeFromMemory(data, options)
}

// DecodeFromReader reads r to EOF and decodes the result. The engine needs
// the complete stream before decoding, so the reader is buffered fully in
// memory.
func DecodeFromReader(r io.Reader, options DecodeOptions) (*DecodedImage, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, ErrIO
	}
	return DecodeFromMemory(data, options)
}

// DecodeBasicMetadata parses only the stream header and returns the image's
// width, height and stored pixel format. It never allocates a pixel buffer.
func DecodeBasicMetadata(data []byte) (width, height uint32, format PixelFormat, err error) {
	cfg, msg := engine.DecodePixelConfiguration(data)
	if msg != "" {
		return 0, 0, PixelFormatInvalid, decodingFailed(msg)
	}
	return cfg.WidthInPixels, cfg.HeightInPixels, PixelFormatFromRaw(cfg.PixFmt), nil
}
