// Package catalog turns storefront listing parameters into parameterized SQL.
//
// Filters are expressed as a list of tagged predicates which are AND-combined;
// values are always bound as query arguments, never spliced into the SQL text.
package catalog

import (
	"strings"
)

// Sort keys accepted by the listing endpoints. Anything else sorts by name.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

type Filter struct {
	Category        string
	Gender          string
	Search          string
	Sort            string
	Featured        bool
	IncludeInactive bool
	CollectionID    int64
	Limit           uint64
}

// FilterFromQuery reads listing query parameters. Inactive products are only
// included when the caller is an admin and asked for them explicitly.
func FilterFromQuery(params map[string]string, isAdmin bool) Filter {
	return Filter{
		Category:        strings.TrimSpace(params["category"]),
		Gender:          strings.TrimSpace(params["gender"]),
		Search:          strings.TrimSpace(params["search"]),
		Sort:            params["sort"],
		Featured:        params["featured"] == "true",
		IncludeInactive: isAdmin && params["showInactive"] == "true",
	}
}
