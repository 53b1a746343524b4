package photo

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/tally/internal/model"
)

type PhotoSuite struct {
	suite.Suite
}

func TestPhotoSuite(t *testing.T) {
	suite.Run(t, new(PhotoSuite))
}

// pngBytes encodes a solid-colour PNG of the given size
func (s *PhotoSuite) pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))
	return buf.Bytes()
}

// decodeDataURL parses the stored form back into an image
func (s *PhotoSuite) decodeDataURL(dataURL string) image.Image {
	s.Require().True(strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/jpeg;base64,"))
	s.Require().NoError(err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	s.Require().NoError(err)
	return img
}

func (s *PhotoSuite) TestSmallImageKeepsDimensions() {
	dataURL, err := Process(s.pngBytes(100, 60))
	s.Require().NoError(err)

	img := s.decodeDataURL(dataURL)
	s.Equal(100, img.Bounds().Dx())
	s.Equal(60, img.Bounds().Dy())
}

func (s *PhotoSuite) TestWideImageScaledToBound() {
	dataURL, err := Process(s.pngBytes(1024, 512))
	s.Require().NoError(err)

	img := s.decodeDataURL(dataURL)
	s.Equal(MaxDimension, img.Bounds().Dx())
	s.Equal(MaxDimension/2, img.Bounds().Dy())
}

func (s *PhotoSuite) TestTallImageScaledToBound() {
	dataURL, err := Process(s.pngBytes(300, 600))
	s.Require().NoError(err)

	img := s.decodeDataURL(dataURL)
	s.Equal(MaxDimension, img.Bounds().Dy())
	s.Equal(128, img.Bounds().Dx())
}

func (s *PhotoSuite) TestJPEGInputAccepted() {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	var buf bytes.Buffer
	s.Require().NoError(jpeg.Encode(&buf, img, nil))

	dataURL, err := Process(buf.Bytes())
	s.Require().NoError(err)
	s.NotEmpty(dataURL)
}

func (s *PhotoSuite) TestUndecodableInputRejected() {
	_, err := Process([]byte("definitely not an image"))
	s.ErrorIs(err, model.ErrImageDecode)
}

func (s *PhotoSuite) TestEmptyInputRejected() {
	_, err := Process(nil)
	s.ErrorIs(err, model.ErrImageDecode)
}
