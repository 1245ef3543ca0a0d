package catalog

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Men's Ethnic Wear!!":  "mens-ethnic-wear",
		"  Salwar   Kameez  ":  "salwar-kameez",
		"T-Shirts":             "t-shirts",
		"Kurtas & Sherwanis":   "kurtas-and-sherwanis",
		"Woollen_Clothes 2024": "woollen-clothes-2024",
	}

	for name, expected := range cases {
		got := Slug(name)
		require.Equal(t, expected, got, name)
		require.Regexp(t, slugPattern, got)
	}
}

func TestSlug_NothingToKeep(t *testing.T) {
	require.Empty(t, Slug("!!!"))
}

func TestProductSlug(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	got := ProductSlug("Men's Ethnic Wear!!", now)
	require.Equal(t, "mens-ethnic-wear-1700000000123", got)
	require.Regexp(t, slugPattern, got)

	require.True(t, strings.HasPrefix(ProductSlug("???", now), "product-"))
}
