// Package photo turns an uploaded image into the small data URL stored on a
// player. Keeping the stored form tiny matters because the photo travels
// inside every board snapshot.
package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/tallyhq/tally/internal/model"
)

const (
	// MaxDimension bounds the longer side of the stored photo
	MaxDimension = 256

	jpegQuality   = 70
	dataURLPrefix = "data:image/jpeg;base64,"
)

// Process decodes an uploaded image, scales it down to fit MaxDimension and
// re-encodes it as a JPEG data URL. PNG, JPEG and GIF inputs are accepted;
// anything undecodable returns ErrImageDecode. Images already within the
// bound keep their dimensions but are still re-encoded.
func Process(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrImageDecode, err)
	}

	src = scaleDown(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding photo: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// scaleDown fits the image inside a MaxDimension square, preserving aspect
// ratio. Images already within the bound are returned as-is.
func scaleDown(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return src
	}

	if w >= h {
		h = h * MaxDimension / w
		w = MaxDimension
	} else {
		w = w * MaxDimension / h
		h = MaxDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
