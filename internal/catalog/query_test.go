package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFromQuery_ShowInactiveRequiresAdmin(t *testing.T) {
	params := map[string]string{"showInactive": "true"}

	require.False(t, FilterFromQuery(params, false).IncludeInactive)
	require.True(t, FilterFromQuery(params, true).IncludeInactive)
	require.False(t, FilterFromQuery(map[string]string{}, true).IncludeInactive)
}

func TestPredicates_ActiveOnlyByDefault(t *testing.T) {
	for _, f := range []Filter{
		{},
		{Category: "men-kurtas"},
		{Gender: "Women", Search: "silk", Featured: true, Sort: SortPriceHigh},
	} {
		preds := Predicates(f)
		require.NotEmpty(t, preds)
		require.Equal(t, KindActiveOnly, preds[0].Kind)
	}

	preds := Predicates(Filter{IncludeInactive: true})
	require.Empty(t, preds)
}

func TestProductListQuery_AllFiltersAreBound(t *testing.T) {
	query, args, err := ProductListQuery(Filter{
		Category: "men-kurtas",
		Gender:   "Men",
		Search:   "silk'; DROP TABLE products; --",
		Featured: true,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "p.is_active = $1")
	assert.Contains(t, query, "(p.gender = $2 OR c.gender = $3)")
	assert.Contains(t, query, "(c.slug = $4 OR c.name = $5)")
	assert.Contains(t, query, "p.is_featured = $6")
	assert.Contains(t, query, "(p.name ILIKE $7 OR p.description ILIKE $8)")
	assert.NotContains(t, query, "DROP TABLE")

	require.Len(t, args, 8)
	assert.Equal(t, true, args[0])
	assert.Equal(t, "Men", args[1])
	assert.Equal(t, "men-kurtas", args[4])
	assert.Equal(t, "%silk'; DROP TABLE products; --%", args[6])
}

func TestProductListQuery_IncludeInactiveDropsActiveClause(t *testing.T) {
	query, args, err := ProductListQuery(Filter{IncludeInactive: true})
	require.NoError(t, err)

	assert.NotContains(t, query, "p.is_active = $")
	assert.Empty(t, args)
}

func TestProductListQuery_Sorting(t *testing.T) {
	cases := map[string]string{
		SortPriceLow:  "ORDER BY p.price ASC, p.id ASC",
		SortPriceHigh: "ORDER BY p.price DESC, p.id ASC",
		SortNewest:    "ORDER BY p.created_at DESC, p.id DESC",
		"":            "ORDER BY p.name ASC, p.id ASC",
		"bogus":       "ORDER BY p.name ASC, p.id ASC",
	}

	for sort, expected := range cases {
		t.Run("sort="+sort, func(t *testing.T) {
			query, _, err := ProductListQuery(Filter{Sort: sort})
			require.NoError(t, err)
			assert.Contains(t, query, expected)
		})
	}
}

func TestProductListQuery_Collection(t *testing.T) {
	query, args, err := ProductListQuery(Filter{CollectionID: 7})
	require.NoError(t, err)

	assert.Contains(t, query, "JOIN collection_products cp ON cp.product_id = p.id")
	assert.Contains(t, query, "cp.collection_id = $2")
	assert.Contains(t, query, "ORDER BY cp.sort_order ASC")
	assert.Equal(t, []any{true, int64(7)}, args)
}

func TestProductListQuery_GalleryOrdersPrimaryFirst(t *testing.T) {
	query, _, err := ProductListQuery(Filter{Limit: 8})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(query, "ORDER BY pi.is_primary DESC, pi.id ASC"))
	assert.True(t, strings.HasSuffix(query, "LIMIT 8"))
}

func TestCollectionListQuery(t *testing.T) {
	query, args, err := CollectionListQuery(false, true, 4)
	require.NoError(t, err)

	assert.Contains(t, query, "is_active = $1 AND is_featured = $2")
	assert.Contains(t, query, "LIMIT 4")
	assert.Equal(t, []any{true, true}, args)

	query, args, err = CollectionListQuery(true, false, 0)
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestPredicate_UnknownKind(t *testing.T) {
	_, _, err := Predicate{Kind: Kind(99)}.ToSql()
	require.Error(t, err)
}
