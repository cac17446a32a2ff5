package qoir

import (
	"bufio"
	"io"
	"os"

	"qoir/internal/engine"
)

// EncodeToMemory encodes image into a QOIR stream in memory. The engine
// reads from the caller-owned pixel view and never takes ownership of it.
//
// The returned EncodedBuffer borrows Data from one engine allocation; call
// Close when done with it and every clone.
func EncodeToMemory(image Image, options EncodeOptions) (*EncodedBuffer, error) {
	return encodeToMemory(image, options, engine.DefaultAllocator)
}

func encodeToMemory(image Image, options EncodeOptions, alloc engine.Allocator) (*EncodedBuffer, error) {
	if err := image.validate(); err != nil {
		return nil, err
	}
	if err := options.validate(); err != nil {
		return nil, err
	}
	pb := engine.PixelBuffer{
		PixCfg: engine.PixelConfiguration{
			PixFmt:         uint32(image.PixelFormat),
			WidthInPixels:  image.Width,
			HeightInPixels: image.Height,
		},
		Data:          image.Pixels,
		StrideInBytes: image.StrideInBytes,
	}
	eo := engine.EncodeOptions{
		Alloc:        alloc,
		MetadataCICP: options.CICPProfile,
		MetadataICCP: options.ICCProfile,
		MetadataEXIF: options.EXIF,
		MetadataXMP:  options.XMP,
		Lossiness:    uint32(options.Lossiness),
		Dither:       options.Dither,
	}

	rec := engine.Encode(&pb, &eo)
	if rec.StatusMessage != "" {
		engine.Free(alloc, rec.OwnedMemory)
		return nil, encodingFailed(rec.StatusMessage)
	}
	owned := rec.OwnedMemory
	return newEncodedBuffer(&rec, func() { engine.Free(alloc, owned) }), nil
}

// EncodeToWriter encodes image and writes the stream to w. Write failure
// maps to ErrIO. On success the in-memory EncodedBuffer is returned as well;
// the caller still owns its Close.
func EncodeToWriter(image Image, options EncodeOptions, w io.Writer) (*EncodedBuffer, error) {
	buf, err := EncodeToMemory(image, options)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf.Data); err != nil {
		buf.Close()
		return nil, ErrIO
	}
	if err := bw.Flush(); err != nil {
		buf.Close()
		return nil, ErrIO
	}
	return buf, nil
}

// EncodeToFile encodes image and writes the stream to the file at path,
// creating or truncating it. Create and write failures map to ErrIO.
func EncodeToFile(image Image, options EncodeOptions, path string) (*EncodedBuffer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ErrIO
	}
	buf, err := EncodeToWriter(image, options, f)
	if cerr := f.Close(); cerr != nil && err == nil {
		buf.Close()
		return nil, ErrIO
	}
	return buf, err
}
