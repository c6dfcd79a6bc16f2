// Package imageio is the collaborator the engine core explicitly excludes:
// it decodes raster files on disk into engine.ImageView values and
// encodes ImageViews back out. PNG and JPEG go through the standard
// library; BMP, TIFF, and WebP go through golang.org/x/image, so the CLI
// accepts any format a user is likely to hand a filter tool without the
// engine itself knowing anything about files.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/errors"
)

// Load decodes path into an engine.ImageView. The view's Channels is 4
// for PNG and 3 for JPEG, BMP, TIFF, and WebP; any alpha in a BMP, TIFF,
// or WebP source is dropped.
func Load(path string) (engine.ImageView, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.ImageView{}, errors.ErrFileAccess(path, err)
	}
	defer f.Close()

	img, channels, err := decode(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return engine.ImageView{}, errors.Wrapf(err, errors.FileError, "failed to decode %s", path)
	}
	return toView(img, channels), nil
}

// Decode reads an image from r, dispatching on filename's extension the
// same way Load does. It is the entry point for sources that are not
// files on disk, such as an HTTP multipart upload.
func Decode(r io.Reader, filename string) (engine.ImageView, error) {
	img, channels, err := decode(r, strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return engine.ImageView{}, errors.Wrapf(err, errors.FileError, "failed to decode %s", filename)
	}
	return toView(img, channels), nil
}

func decode(r io.Reader, ext string) (image.Image, int, error) {
	switch ext {
	case ".png":
		img, err := png.Decode(r)
		return img, 4, err
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		return img, 3, err
	case ".bmp":
		img, err := bmp.Decode(r)
		return img, 3, err
	case ".tif", ".tiff":
		img, err := tiff.Decode(r)
		return img, 3, err
	case ".webp":
		img, err := webp.Decode(r)
		return img, 3, err
	default:
		return nil, 0, fmt.Errorf("unsupported image extension %q", ext)
	}
}

// toView packs img's pixels into a tightly-stride byte buffer matching
// engine.ImageView's invariant (bytes.len == width*height*channels).
func toView(img image.Image, channels int) engine.ImageView {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, width*height*channels)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels[idx] = c.R
			pixels[idx+1] = c.G
			pixels[idx+2] = c.B
			if channels == 4 {
				pixels[idx+3] = c.A
			}
			idx += channels
		}
	}
	return engine.ImageView{Pixels: pixels, Width: width, Height: height, Channels: channels}
}

// Save encodes view to path as PNG or JPEG, chosen by path's extension.
// The HTTP server uses the lower-level Encode directly against an
// io.Writer.
func Save(path string, view engine.ImageView) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.ErrFileAccess(path, err)
	}
	defer f.Close()
	return Encode(f, strings.ToLower(filepath.Ext(path)), view)
}

// Encode writes view to w in the format implied by ext (".png" or
// ".jpg"/".jpeg"; anything else is encoded as PNG).
func Encode(w io.Writer, ext string, view engine.ImageView) error {
	img := fromView(view)
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	default:
		return png.Encode(w, img)
	}
}

// fromView builds an *image.NRGBA over view's bytes without a pixel-by-
// pixel re-pack when channels == 4; channels == 3 views are expanded with
// opaque alpha.
func fromView(view engine.ImageView) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, view.Width, view.Height))
	if view.Channels == 4 {
		copy(img.Pix, view.Pixels)
		return img
	}
	for i, p := 0, 0; p < len(view.Pixels); i, p = i+4, p+3 {
		img.Pix[i] = view.Pixels[p]
		img.Pix[i+1] = view.Pixels[p+1]
		img.Pix[i+2] = view.Pixels[p+2]
		img.Pix[i+3] = 255
	}
	return img
}

// Blank allocates a zeroed output buffer with view's dimensions, for
// callers that need an output ImageView to pass alongside an input one.
func Blank(in engine.ImageView) engine.ImageView {
	return engine.ImageView{
		Pixels:   make([]byte, len(in.Pixels)),
		Width:    in.Width,
		Height:   in.Height,
		Channels: in.Channels,
	}
}
