package storage

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1717171717171)

	require.Equal(t, "products/42/1717171717171-kurta.jpg", ObjectKey("products", 42, "kurta.jpg", now))
	require.Equal(t, "collections/3/1717171717171-banner.png", ObjectKey("collections", 3, "../../etc/banner.png", now))
	require.Equal(t, "categories/9/1717171717171-photo.webp", ObjectKey("categories", 9, `C:\Users\me\photo.webp`, now))
	require.Equal(t, "products/1/1717171717171-upload", ObjectKey("products", 1, "", now))
}

func TestPublicURL(t *testing.T) {
	s := &SupabaseStorage{publicBase: "https://abc.supabase.co/storage/v1/object/public/images/"}

	require.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/images/products/1/1-a.jpg",
		s.PublicURL("products/1/1-a.jpg"),
	)
}

func TestPublicURL_EscapesFilename(t *testing.T) {
	s := &SupabaseStorage{publicBase: "https://abc.supabase.co/storage/v1/object/public/images/"}

	key := ObjectKey("products", 1, "summer #1?.jpg", time.UnixMilli(1))
	raw := s.PublicURL(key)
	require.Equal(t, "https://abc.supabase.co/storage/v1/object/public/images/products/1/1-summer%20%231%3F.jpg", raw)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	require.Empty(t, parsed.Fragment)
	require.Empty(t, parsed.RawQuery)
	require.Equal(t, "/storage/v1/object/public/images/"+key, parsed.Path)
}
