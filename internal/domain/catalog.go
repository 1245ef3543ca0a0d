package domain

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Gender      *string   `json:"gender"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=Men Women Kids Unisex"`
}

type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ImagePath   *string   `json:"image_path"`
	ImageURL    *string   `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	IsFeatured  bool      `json:"is_featured"`
	Products    []Product `json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CollectionInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	IsFeatured  *bool   `json:"is_featured"`
	ProductIDs  []int64 `json:"product_ids" validate:"omitempty,dive,gte=1"`
}

type Offer struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        *string    `json:"description"`
	DiscountPercentage *int32     `json:"discount_percentage"`
	ImageURL           *string    `json:"image_url"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type OfferInput struct {
	Title              *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description        *string    `json:"description"`
	DiscountPercentage *int32     `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	ImageURL           *string    `json:"image_url" validate:"omitempty,url"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	IsActive           *bool      `json:"is_active"`
}

// IsLive reports whether the offer is active and now falls inside its window.
func (o *Offer) IsLive(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if o.StartDate != nil && now.Before(*o.StartDate) {
		return false
	}
	if o.EndDate != nil && now.After(*o.EndDate) {
		return false
	}
	return true
}
