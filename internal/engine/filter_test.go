package engine

import (
	"bytes"
	"testing"
)

func fillPattern(n int) []byte {
	b := make([]byte, n)
	state := uint32(0x9e3779b9)
	for i := range b {
		state = state*1664525 + 1013904223
		b[i] = byte(state >> 24)
	}
	return b
}

func TestFilterRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name      string
		w, h, bpp int
	}{
		{name: "1x1_rgb", w: 1, h: 1, bpp: 3},
		{name: "1x1_rgba", w: 1, h: 1, bpp: 4},
		{name: "16x16_rgba", w: 16, h: 16, bpp: 4},
		{name: "33x17_rgb", w: 33, h: 17, bpp: 3},
		{name: "5x9_rgba", w: 5, h: 9, bpp: 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rowLen := tc.w * tc.bpp
			orig := fillPattern(rowLen * tc.h)
			pix := append([]byte(nil), orig...)

			filterResiduals(pix, rowLen, tc.bpp)
			if tc.w*tc.h > 4 && bytes.Equal(pix, orig) {
				t.Fatalf("filter left the buffer unchanged")
			}
			unfilterResiduals(pix, rowLen, tc.bpp)
			if !bytes.Equal(pix, orig) {
				t.Fatalf("filter/unfilter round trip mismatch")
			}
		})
	}
}

func TestReplicate(t *testing.T) {
	for lossiness := uint(1); lossiness <= 7; lossiness++ {
		bits := 8 - lossiness
		maxQ := uint8(1<<bits - 1)
		if got := replicate(0, bits); got != 0 {
			t.Errorf("lossiness %d: replicate(0) = %d, want 0", lossiness, got)
		}
		if got := replicate(maxQ, bits); got != 255 {
			t.Errorf("lossiness %d: replicate(%d) = %d, want 255", lossiness, maxQ, got)
		}
		prev := -1
		for q := uint8(0); ; q++ {
			got := int(replicate(q, bits))
			if got <= prev {
				t.Fatalf("lossiness %d: replicate not strictly increasing at q=%d", lossiness, q)
			}
			prev = got
			if q == maxQ {
				break
			}
		}
	}
}

func TestQuantizeIdempotentWithoutDither(t *testing.T) {
	const w, h, bpp = 16, 8, 4
	rowLen := w * bpp
	for lossiness := uint32(1); lossiness <= 7; lossiness++ {
		pix := fillPattern(rowLen * h)
		quantize(pix, rowLen, bpp, lossiness, false)
		again := append([]byte(nil), pix...)
		quantize(again, rowLen, bpp, lossiness, false)
		if !bytes.Equal(pix, again) {
			t.Errorf("lossiness %d: quantize not idempotent", lossiness)
		}
	}
}

func TestQuantizeDitherStaysInRange(t *testing.T) {
	const w, h, bpp = 8, 8, 3
	rowLen := w * bpp
	pix := fillPattern(rowLen * h)
	quantize(pix, rowLen, bpp, 7, true)
	// With lossiness 7 every channel must land on one of the two
	// reconstruction levels.
	for i, v := range pix {
		if v != 0 && v != 255 {
			t.Fatalf("byte %d = %d, want 0 or 255", i, v)
		}
	}
}
