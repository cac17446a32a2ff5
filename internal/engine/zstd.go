package engine

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// The zstd encoder and decoder are created once and shared; EncodeAll and
// DecodeAll are safe for concurrent use on a single instance.
var (
	zencOnce sync.Once
	zenc     *zstd.Encoder

	zdecOnce sync.Once
	zdec     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	zencOnce.Do(func() {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			panic("qoir: zstd encoder init: " + err.Error())
		}
		zenc = enc
	})
	return zenc
}

func zstdDecoder() *zstd.Decoder {
	zdecOnce.Do(func() {
		dec, err := zstd.NewReader(
			nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			panic("qoir: zstd decoder init: " + err.Error())
		}
		zdec = dec
	})
	return zdec
}

func compress(raw []byte) []byte {
	return zstdEncoder().EncodeAll(raw, nil)
}

func decompress(frame []byte, capHint int) ([]byte, error) {
	return zstdDecoder().DecodeAll(frame, make([]byte, 0, capHint))
}
