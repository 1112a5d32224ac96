package service

import (
	"context"
	"errors"
	"io"

	"gramosi/internal/domain/entity"
)

// ErrMediaObjectNotFound is returned when a requested media object does not exist.
var ErrMediaObjectNotFound = errors.New("media object not found")

// MediaObject is a stored object opened for reading.
type MediaObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// MediaStorage persists uploaded media.
type MediaStorage interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Open streams an object back.
	Open(ctx context.Context, key string) (*MediaObject, error)

	// Delete removes an object; deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// PreparedMedia is an upload that passed type and size checks and has been normalised.
type PreparedMedia struct {
	Type        entity.MediaType
	ContentType string
	Extension   string
	Data        []byte
}

// MediaProcessor validates raw uploads and normalises images.
type MediaProcessor interface {
	// Prepare sniffs data, enforces the allowed types and size limits, and
	// re-encodes images. allowVideo=false rejects videos.
	Prepare(data []byte, allowVideo bool) (*PreparedMedia, error)
}
