package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"gramosi/config"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	// Decoders accepted for uploads.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	defaultMaxImageBytes  int64 = 10 << 20
	defaultMaxImagePixels int64 = 40_000_000
	defaultMaxVideoBytes  int64 = 100 << 20

	// OutputSize is the edge length of normalised images.
	OutputSize   = 800
	jpegQuality  = 80
	outputFormat = "image/jpeg"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var videoTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

type processor struct {
	maxImageBytes  int64
	maxImagePixels int64
	maxVideoBytes  int64
}

// NewMediaProcessor creates a MediaProcessor using the configured size limits.
func NewMediaProcessor(cfg *config.Config) service.MediaProcessor {
	p := &processor{
		maxImageBytes:  defaultMaxImageBytes,
		maxImagePixels: defaultMaxImagePixels,
		maxVideoBytes:  defaultMaxVideoBytes,
	}
	if cfg.Media != nil {
		if cfg.Media.MaxImageBytes > 0 {
			p.maxImageBytes = cfg.Media.MaxImageBytes
		}
		if cfg.Media.MaxImagePixels > 0 {
			p.maxImagePixels = cfg.Media.MaxImagePixels
		}
		if cfg.Media.MaxVideoBytes > 0 {
			p.maxVideoBytes = cfg.Media.MaxVideoBytes
		}
	}

	return p
}

func (p *processor) Prepare(data []byte, allowVideo bool) (*service.PreparedMedia, error) {
	if len(data) == 0 {
		return nil, domainerrors.ErrMediaRequired
	}

	mtype := mimetype.Detect(data)
	contentType := mtype.String()
	if base, _, found := strings.Cut(contentType, ";"); found {
		contentType = base
	}

	switch {
	case imageTypes[contentType]:
		if int64(len(data)) > p.maxImageBytes {
			return nil, domainerrors.ErrMediaTooLarge.WithDetails("images are limited to " + util.FormatBytes(p.maxImageBytes))
		}

		normalised, err := p.normaliseImage(data)
		if err != nil {
			return nil, err
		}

		return &service.PreparedMedia{
			Type:        entity.MediaTypeImage,
			ContentType: outputFormat,
			Extension:   ".jpg",
			Data:        normalised,
		}, nil

	case videoTypes[contentType] != "":
		if !allowVideo {
			return nil, domainerrors.ErrUnsupportedMedia.WithDetails("only images are allowed here")
		}
		if int64(len(data)) > p.maxVideoBytes {
			return nil, domainerrors.ErrMediaTooLarge.WithDetails("videos are limited to " + util.FormatBytes(p.maxVideoBytes))
		}

		return &service.PreparedMedia{
			Type:        entity.MediaTypeVideo,
			ContentType: contentType,
			Extension:   videoTypes[contentType],
			Data:        data,
		}, nil

	default:
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("detected " + contentType)
	}
}

// normaliseImage scales the image to cover an OutputSize square, crops the
// centre and re-encodes it as JPEG. Dimensions are checked from the header
// before any pixel data is decoded.
func (p *processor) normaliseImage(data []byte) ([]byte, error) {
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("image could not be decoded")
	}
	if header.Width <= 0 || header.Height <= 0 {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("image has no pixels")
	}
	if int64(header.Width)*int64(header.Height) > p.maxImagePixels {
		return nil, domainerrors.ErrMediaTooLarge.WithDetails(
			fmt.Sprintf("images are limited to %d pixels, got %dx%d", p.maxImagePixels, header.Width, header.Height),
		)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("image could not be decoded")
	}

	dst := image.NewRGBA(image.Rect(0, 0, OutputSize, OutputSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, coverRect(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(err, "failed to encode image")
	}

	return buf.Bytes(), nil
}

// coverRect returns the largest centred square inside bounds.
func coverRect(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	side := min(w, h)
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2

	return image.Rect(x0, y0, x0+side, y0+side)
}
