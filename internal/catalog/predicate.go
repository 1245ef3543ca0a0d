package catalog

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Kind int

const (
	KindActiveOnly Kind = iota + 1
	KindCategory
	KindGender
	KindSearch
	KindFeatured
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindActiveOnly:
		return "active"
	case KindCategory:
		return "category"
	case KindGender:
		return "gender"
	case KindSearch:
		return "search"
	case KindFeatured:
		return "featured"
	case KindCollection:
		return "collection"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predicate is one tagged filter clause. It implements squirrel.Sqlizer.
type Predicate struct {
	Kind  Kind
	Value any
}

func (p Predicate) ToSql() (string, []any, error) {
	switch p.Kind {
	case KindActiveOnly:
		return sq.Eq{"p.is_active": true}.ToSql()
	case KindCategory:
		return sq.Or{sq.Eq{"c.slug": p.Value}, sq.Eq{"c.name": p.Value}}.ToSql()
	case KindGender:
		return sq.Or{sq.Eq{"p.gender": p.Value}, sq.Eq{"c.gender": p.Value}}.ToSql()
	case KindSearch:
		pattern := fmt.Sprintf("%%%v%%", p.Value)
		return sq.Or{sq.ILike{"p.name": pattern}, sq.ILike{"p.description": pattern}}.ToSql()
	case KindFeatured:
		return sq.Eq{"p.is_featured": true}.ToSql()
	case KindCollection:
		return sq.Eq{"cp.collection_id": p.Value}.ToSql()
	default:
		return "", nil, fmt.Errorf("unknown predicate %s", p.Kind)
	}
}

// Predicates returns the clauses selected by f in a stable order.
func Predicates(f Filter) []Predicate {
	var preds []Predicate

	if !f.IncludeInactive {
		preds = append(preds, Predicate{Kind: KindActiveOnly})
	}
	if f.CollectionID != 0 {
		preds = append(preds, Predicate{Kind: KindCollection, Value: f.CollectionID})
	}
	if f.Gender != "" {
		preds = append(preds, Predicate{Kind: KindGender, Value: f.Gender})
	}
	if f.Category != "" {
		preds = append(preds, Predicate{Kind: KindCategory, Value: f.Category})
	}
	if f.Featured {
		preds = append(preds, Predicate{Kind: KindFeatured})
	}
	if f.Search != "" {
		preds = append(preds, Predicate{Kind: KindSearch, Value: f.Search})
	}

	return preds
}
