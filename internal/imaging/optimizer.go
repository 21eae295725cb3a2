// Package imaging transcodes uploaded images before they reach storage:
// anything larger than 1200px on a side is scaled down and everything is
// re-encoded as lossy webp.
package imaging

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	maxDimension = 1200
	webpQuality  = 80
)

type Result struct {
	Data     []byte
	Mimetype string
	Size     int64
}

type Optimizer struct{}

func NewOptimizer() *Optimizer { return &Optimizer{} }

// IsImage reports whether content of this mimetype goes through Optimize.
func (o *Optimizer) IsImage(mimetype string) bool {
	return strings.HasPrefix(mimetype, "image/")
}

// Optimize decodes an image, scales it to fit within 1200x1200 without
// enlargement and encodes it as webp at quality 80.
func (o *Optimizer) Optimize(r io.Reader) (*Result, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Mimetype: "image/webp",
		Size:     int64(buf.Len()),
	}, nil
}
