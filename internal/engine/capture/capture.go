// Package capture saves framebuffer screenshots.
package capture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/llgcode/draw2d/draw2dimg"
)

// ErrPixelSize is returned when a pixel buffer does not match its size.
var ErrPixelSize = errors.New("pixel data size mismatch")

// Capture writes timestamped PNG files into a directory.
type Capture struct {
	Dir    string
	Prefix string
	now    func() time.Time
}

// New creates a capture handler.
func New(dir, prefix string) *Capture {
	return &Capture{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture will use.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.png", c.Prefix, c.now().Format("2006-01-02_15-04-05"))
	if c.Dir != "" {
		name = filepath.Join(c.Dir, name)
	}
	return name
}

// FromPixels builds an image from bottom-up RGBA rows as read back
// from OpenGL.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrPixelSize, width, height, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Save writes img and returns its path.
func (c *Capture) Save(img image.Image) (string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	name := c.Filename()
	if err := draw2dimg.SaveToPngFile(name, img); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return name, nil
}

// SavePixels flips and saves a framebuffer read-back.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Save(img)
}
