package storage

import (
	"context"
)

// PictureStorage persists an uploaded picture under name and returns the
// value to store on the person (a public path or URL).
type PictureStorage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}
