package onnx

import (
	"image"
	"image/color"

	resize "github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

var letterboxFill = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// letterbox scales img to fit a size x size square keeping aspect ratio and
// pads the remainder with gray.
func letterbox(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: letterboxFill}, image.Point{}, draw.Src)
	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}

	scale := float64(size) / float64(maxInt(b.Dx(), b.Dy()))
	w := maxInt(1, int(float64(b.Dx())*scale+0.5))
	h := maxInt(1, int(float64(b.Dy())*scale+0.5))
	x0 := (size - w) / 2
	y0 := (size - h) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), img, b, draw.Over, nil)
	return dst
}

// resizeCenterCrop resizes the short side to size with bicubic sampling and
// takes the central size x size square.
func resizeCenterCrop(img image.Image, size int) image.Image {
	b := img.Bounds()
	var resized image.Image
	if b.Dx() < b.Dy() {
		resized = resize.Resize(uint(size), 0, img, resize.Bicubic)
	} else {
		resized = resize.Resize(0, uint(size), img, resize.Bicubic)
	}

	rb := resized.Bounds()
	x0 := rb.Min.X + (rb.Dx()-size)/2
	y0 := rb.Min.Y + (rb.Dy()-size)/2
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), resized, image.Point{X: x0, Y: y0}, draw.Src)
	return dst
}

// resizeExact stretches img to size x size with bicubic sampling
func resizeExact(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Bicubic)
}

// toCHW writes img as normalized planar RGB into dst, which must hold
// 3*size*size values. Pixels are scaled to [0,1] before normalization.
func toCHW(img image.Image, size int, mean, std [3]float32, dst []float32) {
	b := img.Bounds()
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := y*size + x
			dst[i] = (float32(c.R)/255 - mean[0]) / std[0]
			dst[plane+i] = (float32(c.G)/255 - mean[1]) / std[1]
			dst[2*plane+i] = (float32(c.B)/255 - mean[2]) / std[2]
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
