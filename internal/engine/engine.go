// Package engine implements the QOIR-like codec: a chunked container with a
// predictor-filtered, zstd-compressed pixel payload plus optional metadata
// chunks. Callers reach it only through Decode, Encode and
// DecodePixelConfiguration; each successful call returns a result record
// whose slices are carved out of one allocation (OwnedMemory) that must be
// returned to the allocator exactly once.
//
// A result's StatusMessage is the sole failure discriminant: when it is
// non-empty no other field may be used.
package engine

import "fmt"

// PixelConfiguration describes the shape of a pixel buffer.
type PixelConfiguration struct {
	PixFmt         uint32
	WidthInPixels  uint32
	HeightInPixels uint32
}

// PixelBuffer points at pixel rows; Data is WidthInPixels*bpp bytes per row,
// rows StrideInBytes apart.
type PixelBuffer struct {
	PixCfg        PixelConfiguration
	Data          []byte
	StrideInBytes int
}

// Rectangle is (X0,Y0) inclusive to (X1,Y1) exclusive.
type Rectangle struct {
	X0, Y0, X1, Y1 int32
}

// DecodeOptions mirror the container-level decode knobs. A zero PixFmt means
// "decode to RGBA non-premultiplied". Clip rectangles apply only when the
// corresponding Use flag is set; an unset rectangle is disabled, not empty.
type DecodeOptions struct {
	Alloc Allocator

	PixFmt uint32

	UseSrcClipRectangle bool
	SrcClipRectangle    Rectangle
	UseDstClipRectangle bool
	DstClipRectangle    Rectangle

	OffsetX int32
	OffsetY int32
}

// EncodeOptions carry the optional metadata blobs and the lossiness knob.
// Zero-length blobs are treated as absent.
type EncodeOptions struct {
	Alloc Allocator

	MetadataCICP []byte
	MetadataICCP []byte
	MetadataEXIF []byte
	MetadataXMP  []byte

	Lossiness uint32
	Dither    bool
}

// DecodeResult is the raw record returned by Decode. On success DstPixBuf
// and the metadata slices are sub-ranges of OwnedMemory; absent metadata is
// nil.
type DecodeResult struct {
	StatusMessage string
	OwnedMemory   []byte

	DstPixBuf PixelBuffer

	MetadataCICP []byte
	MetadataICCP []byte
	MetadataEXIF []byte
	MetadataXMP  []byte
}

// EncodeResult is the raw record returned by Encode; Dst is the full encoded
// stream, a sub-range of OwnedMemory.
type EncodeResult struct {
	StatusMessage string
	OwnedMemory   []byte

	Dst []byte
}

// Free returns a result's OwnedMemory to the allocator it came from.
func Free(a Allocator, owned []byte) {
	if a == nil {
		a = DefaultAllocator
	}
	if owned != nil {
		a.Free(owned)
	}
}

type irect struct {
	x0, y0, x1, y1 int
}

func (r irect) intersect(s irect) irect {
	if s.x0 > r.x0 {
		r.x0 = s.x0
	}
	if s.y0 > r.y0 {
		r.y0 = s.y0
	}
	if s.x1 < r.x1 {
		r.x1 = s.x1
	}
	if s.y1 < r.y1 {
		r.y1 = s.y1
	}
	return r
}

func (r irect) empty() bool { return r.x1 <= r.x0 || r.y1 <= r.y0 }

func fromRectangle(r Rectangle) irect {
	return irect{int(r.X0), int(r.Y0), int(r.X1), int(r.Y1)}
}

// maxPixelBytes caps a single pixel buffer allocation.
const maxPixelBytes = 1 << 31

// Decode parses a QOIR stream and decodes its pixels into a freshly
// allocated buffer in the requested format, applying the clip rectangles and
// placement offset. Destination pixels not covered by a source pixel stay
// zero.
func Decode(data []byte, opts *DecodeOptions) DecodeResult {
	var o DecodeOptions
	if opts != nil {
		o = *opts
	}
	alloc := o.Alloc
	if alloc == nil {
		alloc = DefaultAllocator
	}

	h, cr, msg := parseHeader(data)
	if msg != "" {
		return DecodeResult{StatusMessage: msg}
	}
	meta, frame, msg := parseBody(cr)
	if msg != "" {
		return DecodeResult{StatusMessage: msg}
	}

	dstFmt := o.PixFmt
	if dstFmt == PixFmtInvalid {
		dstFmt = PixFmtRGBANonPremul
	}
	if !Supported(dstFmt) {
		return DecodeResult{StatusMessage: statusBadPixFmt}
	}

	srcBPP := BytesPerPixel(h.pixfmt)
	if int64(h.width)*int64(h.height)*int64(srcBPP) > maxPixelBytes {
		return DecodeResult{StatusMessage: statusTooLarge}
	}
	rowLen := int(h.width) * srcBPP
	want := rowLen * int(h.height)

	raw, err := decompress(frame, want)
	if err != nil {
		return DecodeResult{StatusMessage: fmt.Sprintf("qoir: zstd: %v", err)}
	}
	if len(raw) != want {
		return DecodeResult{StatusMessage: statusBadPixelData}
	}
	unfilterResiduals(raw, rowLen, srcBPP)

	// The clipped source region is placed at (+OffsetX,+OffsetY) in
	// destination space. Without a destination clip the output is exactly
	// the placed region; with one, the clip rectangle becomes the output
	// canvas and canvas pixels the placed region does not cover stay zero.
	srcR := irect{0, 0, int(h.width), int(h.height)}
	if o.UseSrcClipRectangle {
		srcR = srcR.intersect(fromRectangle(o.SrcClipRectangle))
		if srcR.empty() {
			return DecodeResult{StatusMessage: statusEmptyClip}
		}
	}
	ox, oy := int(o.OffsetX), int(o.OffsetY)
	placed := irect{srcR.x0 + ox, srcR.y0 + oy, srcR.x1 + ox, srcR.y1 + oy}
	outR := placed
	if o.UseDstClipRectangle {
		outR = fromRectangle(o.DstClipRectangle)
		if outR.empty() || placed.intersect(outR).empty() {
			return DecodeResult{StatusMessage: statusEmptyClip}
		}
	}

	outW := outR.x1 - outR.x0
	outH := outR.y1 - outR.y0
	dstBPP := BytesPerPixel(dstFmt)
	if int64(outW)*int64(outH)*int64(dstBPP) > maxPixelBytes {
		return DecodeResult{StatusMessage: statusTooLarge}
	}
	dstStride := outW * dstBPP
	pixLen := outH * dstStride

	total := pixLen + len(meta.cicp) + len(meta.iccp) + len(meta.exif) + len(meta.xmp)
	arena := alloc.Alloc(total)
	dstPix := arena[:pixLen:pixLen]

	same := dstFmt == h.pixfmt
	for y := 0; y < outH; y++ {
		sy := outR.y0 + y - oy
		if sy < srcR.y0 || sy >= srcR.y1 {
			continue
		}
		drow := dstPix[y*dstStride : (y+1)*dstStride]
		srow := raw[sy*rowLen : (sy+1)*rowLen]
		for x := 0; x < outW; x++ {
			sx := outR.x0 + x - ox
			if sx < srcR.x0 || sx >= srcR.x1 {
				continue
			}
			sp := srow[sx*srcBPP:]
			dp := drow[x*dstBPP:]
			if same {
				copy(dp[:dstBPP], sp[:srcBPP])
			} else {
				r, g, b, a := loadPixel(h.pixfmt, sp)
				storePixel(dstFmt, dp, r, g, b, a)
			}
		}
	}

	off := pixLen
	place := func(b []byte) []byte {
		if len(b) == 0 {
			return nil
		}
		dst := arena[off : off+len(b) : off+len(b)]
		copy(dst, b)
		off += len(b)
		return dst
	}

	return DecodeResult{
		OwnedMemory: arena,
		DstPixBuf: PixelBuffer{
			PixCfg: PixelConfiguration{
				PixFmt:         dstFmt,
				WidthInPixels:  uint32(outW),
				HeightInPixels: uint32(outH),
			},
			Data:          dstPix,
			StrideInBytes: dstStride,
		},
		MetadataCICP: place(meta.cicp),
		MetadataICCP: place(meta.iccp),
		MetadataEXIF: place(meta.exif),
		MetadataXMP:  place(meta.xmp),
	}
}

// Encode compresses src into a QOIR stream. The source buffer is only read;
// the returned stream lives in a fresh allocation.
func Encode(src *PixelBuffer, opts *EncodeOptions) EncodeResult {
	var o EncodeOptions
	if opts != nil {
		o = *opts
	}
	alloc := o.Alloc
	if alloc == nil {
		alloc = DefaultAllocator
	}

	if src == nil || !Supported(src.PixCfg.PixFmt) {
		return EncodeResult{StatusMessage: statusInvalidArg}
	}
	w, ht := src.PixCfg.WidthInPixels, src.PixCfg.HeightInPixels
	if w == 0 || ht == 0 {
		return EncodeResult{StatusMessage: statusInvalidArg}
	}
	if w > MaxDimension || ht > MaxDimension {
		return EncodeResult{StatusMessage: statusTooLarge}
	}
	bpp := BytesPerPixel(src.PixCfg.PixFmt)
	if int64(w)*int64(ht)*int64(bpp) > maxPixelBytes {
		return EncodeResult{StatusMessage: statusTooLarge}
	}
	if src.StrideInBytes < int(w)*bpp {
		return EncodeResult{StatusMessage: statusInvalidArg}
	}
	if len(src.Data) < int(ht)*src.StrideInBytes {
		return EncodeResult{StatusMessage: statusInvalidArg}
	}
	if o.Lossiness > 7 {
		return EncodeResult{StatusMessage: statusUnsupportedLo}
	}

	rowLen := int(w) * bpp
	tight := make([]byte, rowLen*int(ht))
	for y := 0; y < int(ht); y++ {
		copy(tight[y*rowLen:(y+1)*rowLen], src.Data[y*src.StrideInBytes:])
	}
	if o.Lossiness > 0 {
		quantize(tight, rowLen, bpp, o.Lossiness, o.Dither)
	}
	filterResiduals(tight, rowLen, bpp)
	frame := compress(tight)

	metaLen := len(o.MetadataCICP) + len(o.MetadataICCP) + len(o.MetadataEXIF) + len(o.MetadataXMP)
	file := make([]byte, 0, len(fileMagic)+8+headerPayloadLen+metaLen+len(frame)+5*8)
	file = append(file, fileMagic...)
	file = appendHeaderChunk(file, header{
		width:     w,
		height:    ht,
		pixfmt:    src.PixCfg.PixFmt,
		lossiness: o.Lossiness,
	})
	if len(o.MetadataCICP) > 0 {
		file = appendChunk(file, tagCICP, o.MetadataCICP)
	}
	if len(o.MetadataICCP) > 0 {
		file = appendChunk(file, tagICCP, o.MetadataICCP)
	}
	if len(o.MetadataEXIF) > 0 {
		file = appendChunk(file, tagEXIF, o.MetadataEXIF)
	}
	if len(o.MetadataXMP) > 0 {
		file = appendChunk(file, tagXMP, o.MetadataXMP)
	}
	file = appendChunk(file, tagPixels, frame)
	file = appendChunk(file, tagEnd, nil)

	arena := alloc.Alloc(len(file))
	copy(arena, file)
	return EncodeResult{
		OwnedMemory: arena,
		Dst:         arena[:len(file):len(file)],
	}
}

// DecodePixelConfiguration parses only the container header. It never
// allocates a pixel buffer; the second return value is the status message,
// empty on success.
func DecodePixelConfiguration(data []byte) (PixelConfiguration, string) {
	h, _, msg := parseHeader(data)
	if msg != "" {
		return PixelConfiguration{}, msg
	}
	return PixelConfiguration{
		PixFmt:         h.pixfmt,
		WidthInPixels:  h.width,
		HeightInPixels: h.height,
	}, ""
}
