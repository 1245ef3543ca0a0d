package catalog

import (
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	primaryImageColumn = `(SELECT pi.image_url FROM product_images pi
		WHERE pi.product_id = p.id
		ORDER BY pi.is_primary DESC, pi.id ASC
		LIMIT 1) AS primary_image`

	galleryColumn = `COALESCE((SELECT json_agg(json_build_object(
			'id', pi.id,
			'product_id', pi.product_id,
			'image_url', pi.image_url,
			'alt_text', pi.alt_text,
			'is_primary', pi.is_primary
		) ORDER BY pi.is_primary DESC, pi.id ASC)
		FROM product_images pi
		WHERE pi.product_id = p.id), '[]'::json) AS images`
)

// ProductColumns is the column list every product listing selects, in the order
// repositories scan them.
var ProductColumns = []string{
	"p.id",
	"p.name",
	"p.slug",
	"p.description",
	"p.price",
	"p.compare_at_price",
	"p.sku",
	"p.barcode",
	"p.quantity",
	"p.category_id",
	"c.name AS category_name",
	"p.gender",
	"p.is_featured",
	"p.is_active",
	"p.created_at",
	"p.updated_at",
	primaryImageColumn,
	galleryColumn,
}

// OrderBy maps a sort key to ORDER BY terms. Ties are broken by id so pages are stable.
func OrderBy(sort string) []string {
	switch sort {
	case SortPriceLow:
		return []string{"p.price ASC", "p.id ASC"}
	case SortPriceHigh:
		return []string{"p.price DESC", "p.id ASC"}
	case SortNewest:
		return []string{"p.created_at DESC", "p.id DESC"}
	default:
		return []string{"p.name ASC", "p.id ASC"}
	}
}

// ProductBase selects ProductColumns from products joined with their category.
func ProductBase() sq.SelectBuilder {
	return psql.Select(ProductColumns...).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id")
}

// ProductListQuery builds the listing query for f.
// Collection listings keep the curated sort_order unless a sort key is given.
func ProductListQuery(f Filter) (string, []any, error) {
	q := ProductBase()

	if f.CollectionID != 0 {
		q = q.Join("collection_products cp ON cp.product_id = p.id")
	}

	for _, pred := range Predicates(f) {
		q = q.Where(pred)
	}

	switch {
	case f.CollectionID != 0 && f.Sort == "":
		q = q.OrderBy("cp.sort_order ASC", "p.id ASC")
	default:
		q = q.OrderBy(OrderBy(f.Sort)...)
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	return q.ToSql()
}

// ProductByIDQuery selects a single product with its gallery.
func ProductByIDQuery(id int64) (string, []any, error) {
	return ProductBase().Where(sq.Eq{"p.id": id}).ToSql()
}

// RecentProductsQuery lists the newest products regardless of visibility.
func RecentProductsQuery(limit uint64) (string, []any, error) {
	return ProductBase().OrderBy(OrderBy(SortNewest)...).Limit(limit).ToSql()
}

var CollectionColumns = []string{
	"id", "name", "slug", "description", "image_path", "is_active", "is_featured", "created_at", "updated_at",
}

// CollectionListQuery lists collections by name, hiding inactive ones unless includeInactive.
func CollectionListQuery(includeInactive, featuredOnly bool, limit uint64) (string, []any, error) {
	q := psql.Select(CollectionColumns...).From("collections")

	if !includeInactive {
		q = q.Where(sq.Eq{"is_active": true})
	}
	if featuredOnly {
		q = q.Where(sq.Eq{"is_featured": true})
	}

	q = q.OrderBy("name ASC", "id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	return q.ToSql()
}
