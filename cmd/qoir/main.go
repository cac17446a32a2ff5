// Command qoir converts between common raster formats and QOIR.
//
// Encode: qoir <input-image> [lossiness 0-7]
// Decode: qoir <input.qoir>
package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"qoir"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprint(os.Stderr, "Encode: qoir <input-image> [lossiness 0-7]\nDecode: qoir <input.qoir>\n")
		os.Exit(1)
	}

	inputPath := os.Args[1]
	ext := strings.ToLower(filepath.Ext(inputPath))
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

	// If input is .qoir → decode to PNG
	if ext == ".qoir" {
		if err := decodeQOIR(inputPath, base+".png"); err != nil {
			fmt.Fprintln(os.Stderr, "decode error:", err)
			os.Exit(1)
		}
		fmt.Printf("Decoded %s → %s\n", inputPath, base+".png")
		return
	}

	// Otherwise: encode image → .qoir with default or provided lossiness
	lossiness := 0
	if len(os.Args) == 3 {
		l, err := strconv.Atoi(os.Args[2])
		if err != nil || l < 0 || l > 7 {
			fmt.Fprintln(os.Stderr, "lossiness must be an integer between 0 and 7")
			os.Exit(1)
		}
		lossiness = l
	}

	outPath := base + ".qoir"
	if err := encodeToQOIR(inputPath, outPath, lossiness); err != nil {
		fmt.Fprintln(os.Stderr, "encode error:", err)
		os.Exit(1)
	}
	fmt.Printf("Encoded %s (lossiness=%d) → %s\n", inputPath, lossiness, outPath)
}

func encodeToQOIR(inPath, outPath string, lossiness int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}
	nrgba := toNRGBA(img)

	view := qoir.Image{
		Pixels:        nrgba.Pix,
		Width:         uint32(nrgba.Rect.Dx()),
		Height:        uint32(nrgba.Rect.Dy()),
		PixelFormat:   qoir.PixelFormatRGBANonPremul,
		StrideInBytes: nrgba.Stride,
	}
	opts := qoir.EncodeOptions{Lossiness: uint8(lossiness), Dither: lossiness > 0}
	buf, err := qoir.EncodeToFile(view, opts, outPath)
	if err != nil {
		return err
	}
	buf.Close()
	return nil
}

func decodeQOIR(inPath, outPath string) error {
	dec, err := qoir.Decode(inPath, qoir.DefaultDecodeOptions())
	if err != nil {
		return err
	}
	defer dec.Close()

	w := int(dec.Image.Width)
	h := int(dec.Image.Height)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:], dec.Image.Pixels[y*dec.Image.StrideInBytes:y*dec.Image.StrideInBytes+w*4])
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

// toNRGBA copies any image.Image into an *image.NRGBA with bounds starting
// at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
