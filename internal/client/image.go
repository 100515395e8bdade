package client

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/eventhive/internal/entity"
)

// File is an image attached to an event create or update.
type File struct {
	Name   string
	Reader io.Reader
}

type ImageOptions struct {
	MaxDimension int
	JPEGQuality  int
}

func DefaultImageOptions() ImageOptions {
	return ImageOptions{MaxDimension: 1600, JPEGQuality: 85}
}

type preparedImage struct {
	name        string
	contentType string
	data        []byte
}

// prepareImage decodes the upload, fits it inside MaxDimension on both sides
// and re-encodes it. PNG stays PNG, everything else becomes JPEG.
func prepareImage(f File, opts ImageOptions) (preparedImage, error) {
	img, err := imaging.Decode(f.Reader, imaging.AutoOrientation(true))
	if err != nil {
		return preparedImage{}, fmt.Errorf("%s: %w", f.Name, entity.ErrInvalidImage)
	}

	if limit := opts.MaxDimension; limit > 0 {
		b := img.Bounds()
		if b.Dx() > limit || b.Dy() > limit {
			img = imaging.Fit(img, limit, limit, imaging.Lanczos)
		}
	}

	base := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name))
	if base == "" || base == "." {
		base = "image"
	}

	format := imaging.JPEG
	if ext, err := imaging.FormatFromFilename(f.Name); err == nil && ext == imaging.PNG {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	out := preparedImage{}
	switch format {
	case imaging.PNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
		out.name, out.contentType = base+".png", "image/png"
	default:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 85
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
		out.name, out.contentType = base+".jpg", "image/jpeg"
	}
	if err != nil {
		return preparedImage{}, fmt.Errorf("failed to encode image: %w", err)
	}
	out.data = buf.Bytes()
	return out, nil
}
