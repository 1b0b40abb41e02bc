package canvas

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/gabriel-vasile/mimetype"
)

// Image is a decoded raster image registered with the document.
type Image struct {
	name   string
	Width  float64 // physical width in mm at the embedded (or 72) dpi
	Height float64
}

// Rect is a placement rectangle.
type Rect struct {
	X, Y, W, H float64
}

// imageType maps a detected MIME type to the fpdf image type name.
func imageType(mime string) (string, bool) {
	switch {
	case strings.HasPrefix(mime, "image/png"):
		return "png", true
	case strings.HasPrefix(mime, "image/jpeg"):
		return "jpg", true
	case strings.HasPrefix(mime, "image/gif"):
		return "gif", true
	default:
		return "", false
	}
}

// LoadImage decodes and registers the image at path without drawing it.
// Decoding failures return ErrImageDecode and leave the canvas usable.
func (c *Canvas) LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- cover path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	mt := mimetype.Detect(data)
	tp, ok := imageType(mt.String())
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported type %s", ErrImageDecode, path, mt.String())
	}

	info := c.pdf.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: tp, ReadDpi: true}, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, path, err)
	}
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrImageDecode, path)
	}

	return &Image{name: path, Width: info.Width(), Height: info.Height()}, nil
}

// DrawImage places a registered image in the given rectangle.
func (c *Canvas) DrawImage(img *Image, r Rect) {
	c.pdf.ImageOptions(img.name, r.X, r.Y, r.W, r.H, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
}

// FitCentered scales an image of size imgW by imgH to fit entirely inside a
// pageW by pageH area, preserving its aspect ratio, and centres it.
func FitCentered(pageW, pageH, imgW, imgH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{}
	}
	scale := min(pageW/imgW, pageH/imgH)
	w, h := imgW*scale, imgH*scale
	return Rect{X: (pageW - w) / 2, Y: (pageH - h) / 2, W: w, H: h}
}

// PlaceCover draws img letterboxed on the current page, ignoring margins.
func (c *Canvas) PlaceCover(img *Image) Rect {
	r := FitCentered(c.opts.Size.Width, c.opts.Size.Height, img.Width, img.Height)
	c.DrawImage(img, r)
	return r
}
