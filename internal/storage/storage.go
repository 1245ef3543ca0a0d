// Package storage persists uploaded images in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ObjectKey namespaces an upload as {entity}/{id}/{unix-millis}-{filename}.
// Two uploads of the same filename within one millisecond share a key.
func ObjectKey(entity string, id int64, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}

	return fmt.Sprintf("%s/%d/%d-%s", entity, id, now.UnixMilli(), name)
}
