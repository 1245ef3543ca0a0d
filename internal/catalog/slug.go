package catalog

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

var slugSubstitutions = map[string]string{
	"'": "",
	"’": "",
	"&": " and ",
	"_": "-",
}

// Slug returns a lowercase, hyphen separated identifier made of ASCII letters and
// digits. It is empty when name has nothing to keep.
func Slug(name string) string {
	return slug.Make(slug.Substitute(name, slugSubstitutions))
}

// ProductSlug appends a millisecond timestamp so products sharing a name get
// distinct slugs.
func ProductSlug(name string, now time.Time) string {
	base := Slug(name)
	if base == "" {
		return fmt.Sprintf("product-%d", now.UnixMilli())
	}

	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}
