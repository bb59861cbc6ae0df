package signature

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen movement.
type Stroke []Point

// Pad is the drawing surface a signature is captured on.
type Pad interface {
	Draw(stroke Stroke)
	Clear()
	IsEmpty() bool
	// ToImage serializes the current drawing as an image data URL.
	ToImage() (string, error)
	LoadImage(dataURL string) error
}

// Resizable is implemented by surfaces whose dimensions follow the layout.
type Resizable interface {
	Resize(width, height int)
}

const (
	DefaultWidth    = 600
	DefaultHeight   = 192
	defaultPenWidth = 2.5
)

// Canvas is a raster Pad drawing black strokes on a white background.
type Canvas struct {
	img        *image.RGBA
	background color.Color
	pen        color.Color
	penWidth   float64
	empty      bool
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		background: color.White,
		pen:        color.Black,
		penWidth:   defaultPenWidth,
	}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

func (c *Canvas) Resize(width, height int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.Clear()
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
	c.empty = true
}

func (c *Canvas) IsEmpty() bool {
	return c.empty
}

func (c *Canvas) Draw(stroke Stroke) {
	if len(stroke) == 0 {
		return
	}
	c.dot(stroke[0])
	for i := 1; i < len(stroke); i++ {
		c.segment(stroke[i-1], stroke[i])
	}
	c.empty = false
}

func (c *Canvas) ToImage() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return "", err
	}
	return EncodeDataURL(MediaTypePNG, buf.Bytes()), nil
}

// LoadImage draws a previously captured signature scaled to fit the surface.
func (c *Canvas) LoadImage(dataURL string) error {
	src, err := DecodeImage(dataURL)
	if err != nil {
		return err
	}
	xdraw.CatmullRom.Scale(c.img, fitRect(c.img.Bounds(), src.Bounds()), src, src.Bounds(), xdraw.Over, nil)
	c.empty = false
	return nil
}

// MaxImageDimension bounds the width and height of a decoded signature image.
const MaxImageDimension = 2000

// CheckImage reads only the header of a PNG, JPEG or WebP data URL and
// rejects images with a side longer than MaxImageDimension.
func CheckImage(dataURL string) (image.Config, error) {
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return image.Config{}, err
	}
	return checkConfig(data)
}

func checkConfig(data []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, ErrInvalidDataURL
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, ErrInvalidDataURL
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return image.Config{}, ErrImageTooLarge
	}
	return cfg, nil
}

// DecodeImage decodes a PNG, JPEG or WebP data URL after CheckImage's bounds
// check.
func DecodeImage(dataURL string) (image.Image, error) {
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if _, err := checkConfig(data); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (c *Canvas) segment(from, to Point) {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	steps := int(math.Ceil(dist * 2))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.dot(Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t})
	}
}

func (c *Canvas) dot(p Point) {
	r := c.penWidth / 2
	bounds := c.img.Bounds()
	minX := max(int(math.Floor(p.X-r)), bounds.Min.X)
	maxX := min(int(math.Ceil(p.X+r)), bounds.Max.X-1)
	minY := max(int(math.Floor(p.Y-r)), bounds.Min.Y)
	maxY := min(int(math.Ceil(p.Y+r)), bounds.Max.Y-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - p.X
			dy := float64(y) + 0.5 - p.Y
			if dx*dx+dy*dy <= r*r {
				c.img.Set(x, y, c.pen)
			}
		}
	}
}

// fitRect centres src inside dst keeping its aspect ratio.
func fitRect(dst, src image.Rectangle) image.Rectangle {
	if src.Dx() == 0 || src.Dy() == 0 {
		return dst
	}
	scale := math.Min(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
