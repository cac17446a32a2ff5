package qoir

import (
	"sync"
	"sync/atomic"

	"qoir/internal/engine"
)

// ownedResult is the exclusive logical owner of one engine allocation. All
// slices handed out for a single decode or encode call are sub-ranges of
// that allocation; clones share it through the atomic reference count and
// the release function runs exactly once, when the count reaches zero.
type ownedResult struct {
	refs atomic.Int32
	free func()
}

func newOwnedResult(free func()) *ownedResult {
	o := &ownedResult{free: free}
	o.refs.Store(1)
	return o
}

func (o *ownedResult) retain() {
	if o.refs.Add(1) <= 1 {
		panic("qoir: retain after release")
	}
}

func (o *ownedResult) release() {
	switch n := o.refs.Add(-1); {
	case n == 0:
		if o.free != nil {
			o.free()
		}
	case n < 0:
		panic("qoir: release without matching retain")
	}
}

// DecodedImage is the result of a successful decode. Image.Pixels and the
// metadata blobs borrow from one shared engine allocation: they stay valid
// until the last clone is closed and must not be used afterwards. Absent
// metadata is nil.
type DecodedImage struct {
	owned *ownedResult
	once  sync.Once

	Image Image

	CICPProfile []byte
	ICCProfile  []byte
	EXIF        []byte
	XMP         []byte
}

// newDecodedImage wraps a successful raw decode record. This is the one
// place where the record's pointer/stride/dimension fields become borrowed
// slices; the pixel view is clamped to Height*StrideInBytes bytes.
func newDecodedImage(rec *engine.DecodeResult, free func()) *DecodedImage {
	pb := rec.DstPixBuf
	n := int(pb.PixCfg.HeightInPixels) * pb.StrideInBytes
	return &DecodedImage{
		owned: newOwnedResult(free),
		Image: Image{
			Pixels:        pb.Data[:n:n],
			Width:         pb.PixCfg.WidthInPixels,
			Height:        pb.PixCfg.HeightInPixels,
			PixelFormat:   PixelFormatFromRaw(pb.PixCfg.PixFmt),
			StrideInBytes: pb.StrideInBytes,
		},
		CICPProfile: rec.MetadataCICP,
		ICCProfile:  rec.MetadataICCP,
		EXIF:        rec.MetadataEXIF,
		XMP:         rec.MetadataXMP,
	}
}

// Clone returns a new handle sharing the same underlying allocation. Each
// handle must be closed independently.
func (d *DecodedImage) Clone() *DecodedImage {
	d.owned.retain()
	return &DecodedImage{
		owned:       d.owned,
		Image:       d.Image,
		CICPProfile: d.CICPProfile,
		ICCProfile:  d.ICCProfile,
		EXIF:        d.EXIF,
		XMP:         d.XMP,
	}
}

// Close releases this handle's share of the underlying allocation. Closing
// the same handle twice is a no-op; closing the last handle frees the
// allocation.
func (d *DecodedImage) Close() {
	d.once.Do(d.owned.release)
}

// EncodedBuffer is the result of a successful encode. Data borrows from one
// shared engine allocation with the same clone/close discipline as
// DecodedImage.
type EncodedBuffer struct {
	owned *ownedResult
	once  sync.Once

	Data []byte
}

func newEncodedBuffer(rec *engine.EncodeResult, free func()) *EncodedBuffer {
	return &EncodedBuffer{
		owned: newOwnedResult(free),
		Data:  rec.Dst,
	}
}

// Clone returns a new handle sharing the same underlying allocation.
func (b *EncodedBuffer) Clone() *EncodedBuffer {
	b.owned.retain()
	return &EncodedBuffer{owned: b.owned, Data: b.Data}
}

// Close releases this handle's share of the underlying allocation.
func (b *EncodedBuffer) Close() {
	b.once.Do(b.owned.release)
}
