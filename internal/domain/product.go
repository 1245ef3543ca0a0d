package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderKids   Gender = "Kids"
	GenderUnisex Gender = "Unisex"
)

type Product struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    *string             `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice decimal.NullDecimal `json:"compare_at_price"`
	SKU            *string             `json:"sku"`
	Barcode        *string             `json:"barcode"`
	Quantity       int32               `json:"quantity"`
	CategoryID     *int64              `json:"category_id"`
	CategoryName   *string             `json:"category_name"`
	Gender         *string             `json:"gender"`
	IsFeatured     bool                `json:"is_featured"`
	IsActive       bool                `json:"is_active"`
	PrimaryImage   *string             `json:"primary_image"`
	Images         []ProductImage      `json:"images"`
	Variants       []Variant           `json:"variants,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type ProductImage struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	ImageURL  string  `json:"image_url"`
	AltText   *string `json:"alt_text"`
	IsPrimary bool    `json:"is_primary"`
}

type Variant struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	SKU             *string         `json:"sku"`
	Quantity        int32           `json:"quantity"`
}

func (v Variant) Label() string {
	return v.Name + ": " + v.Value
}

type VariantInput struct {
	Name            string           `json:"name" validate:"required,max=50"`
	Value           string           `json:"value" validate:"required,max=50"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
	SKU             *string          `json:"sku" validate:"omitempty,max=100"`
	Quantity        int32            `json:"quantity" validate:"gte=0"`
}

type CreateProductInput struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Description    *string          `json:"description"`
	Price          decimal.Decimal  `json:"price" validate:"gt=0"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price" validate:"omitempty,gt=0"`
	SKU            *string          `json:"sku" validate:"omitempty,max=100"`
	Barcode        *string          `json:"barcode" validate:"omitempty,max=100"`
	Quantity       int32            `json:"quantity" validate:"gte=0"`
	CategoryID     *int64           `json:"category_id" validate:"omitempty,gte=1"`
	Gender         *string          `json:"gender" validate:"omitempty,oneof=Men Women Kids Unisex"`
	IsFeatured     bool             `json:"is_featured"`
	IsActive       *bool            `json:"is_active"`
	Variants       []VariantInput   `json:"variants" validate:"omitempty,dive"`
}

// UpdateProductInput carries a partial update; nil fields keep their stored value.
type UpdateProductInput struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price" validate:"omitempty,gt=0"`
	SKU            *string          `json:"sku" validate:"omitempty,max=100"`
	Barcode        *string          `json:"barcode" validate:"omitempty,max=100"`
	Quantity       *int32           `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID     *int64           `json:"category_id" validate:"omitempty,gte=1"`
	Gender         *string          `json:"gender" validate:"omitempty,oneof=Men Women Kids Unisex"`
	IsFeatured     *bool            `json:"is_featured"`
	IsActive       *bool            `json:"is_active"`
	Variants       []VariantInput   `json:"variants" validate:"omitempty,dive"`
}

func (in *UpdateProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil &&
		in.CompareAtPrice == nil && in.SKU == nil && in.Barcode == nil &&
		in.Quantity == nil && in.CategoryID == nil && in.Gender == nil &&
		in.IsFeatured == nil && in.IsActive == nil && in.Variants == nil
}
