// Package imageproc turns uploaded image bytes into the normalized CHW
// tensor the plant classifier expects.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the input resolution of the MobileNetV2 backbone.
const DefaultSize = 224

// Channels is the number of color planes in the tensor.
const Channels = 3

// ImageNet statistics the backbone was pretrained with.
var (
	Mean = [Channels]float32{0.485, 0.456, 0.406}
	Std  = [Channels]float32{0.229, 0.224, 0.225}
)

// MaxPixels caps the decoded width×height of an upload. Larger images are
// rejected from their header before any pixel memory is allocated.
const MaxPixels = 89_478_485

// ErrInvalidImage is returned when the input cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// TensorLen is the number of float32 values in a [1,3,size,size] tensor.
func TensorLen(size int) int {
	return Channels * size * size
}

// Preprocess decodes raw, converts it to RGB, resizes it to size×size with a
// bilinear filter and normalizes each channel. The result is laid out as
// [1, 3, size, size] in row-major order.
func Preprocess(raw []byte, size int) ([]float32, error) {
	if size <= 0 {
		return nil, fmt.Errorf("imageproc: invalid target size %d", size)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	rgb := toRGB(img)
	resized, ok := resize.Resize(uint(size), uint(size), rgb, resize.Bilinear).(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("imageproc: unexpected resize output type")
	}

	return normalize(resized, size), nil
}

// toRGB copies img into an opaque RGBA image. Alpha is discarded rather
// than composited, so a transparent pixel keeps its straight color.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

func normalize(img *image.RGBA, size int) []float32 {
	plane := size * size
	data := make([]float32, Channels*plane)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			p := y*size + x
			for c := 0; c < Channels; c++ {
				v := float32(img.Pix[i+c]) / 255.0
				data[c*plane+p] = (v - Mean[c]) / Std[c]
			}
		}
	}
	return data
}
