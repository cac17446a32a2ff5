package engine

// The pixel payload is stored as predictor residuals over the row-tightened
// native bytes: each byte is predicted by the same channel of the previous
// pixel in the row, a row's first pixel by the pixel above it, and the very
// first pixel by zero. Residuals cluster near zero on natural images, which
// is what the zstd layer feeds on.

// filterResiduals transforms pix (h rows of rowLen bytes) in place into
// residuals. Iterating backwards keeps every predictor byte original until
// it has been consumed.
func filterResiduals(pix []byte, rowLen, bpp int) {
	for i := len(pix) - 1; i >= 0; i-- {
		var pred byte
		if i%rowLen >= bpp {
			pred = pix[i-bpp]
		} else if i >= rowLen {
			pred = pix[i-rowLen]
		}
		pix[i] -= pred
	}
}

// unfilterResiduals is the inverse of filterResiduals.
func unfilterResiduals(pix []byte, rowLen, bpp int) {
	for i := 0; i < len(pix); i++ {
		var pred byte
		if i%rowLen >= bpp {
			pred = pix[i-bpp]
		} else if i >= rowLen {
			pred = pix[i-rowLen]
		}
		pix[i] += pred
	}
}

// bayer4 is the standard 4x4 ordered dither matrix.
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// replicate spreads the top `bits` significant bits of q across the full
// byte range, so 0 stays 0 and the maximum quantized value maps to 255.
func replicate(q uint8, bits uint) uint8 {
	v := uint32(q) << (8 - bits)
	out := v
	for s := bits; s < 8; s += bits {
		out |= v >> s
	}
	return uint8(out)
}

// quantize reduces every channel of pix (h rows of rowLen bytes, bpp bytes
// per pixel) to 8-lossiness significant bits, storing the reconstructed
// values in place. lossiness must be in 1..7. With dither enabled, an
// ordered threshold is added before truncation to trade banding for noise.
func quantize(pix []byte, rowLen, bpp int, lossiness uint32, dither bool) {
	shift := uint(lossiness)
	bits := 8 - shift
	step := 1 << shift
	for y := 0; y*rowLen < len(pix); y++ {
		row := pix[y*rowLen : (y+1)*rowLen]
		for i, v := range row {
			val := int(v)
			if dither {
				x := i / bpp
				val += bayer4[y&3][x&3]*step/16 - step/2
				if val < 0 {
					val = 0
				} else if val > 255 {
					val = 255
				}
			}
			row[i] = replicate(uint8(val>>shift), bits)
		}
	}
}
