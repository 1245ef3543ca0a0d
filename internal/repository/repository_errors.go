package repository

import "github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"

var (
	ErrProductNotFound    = domain.Errorf(domain.ErrNotFound, "Product not found")
	ErrImageNotFound      = domain.Errorf(domain.ErrNotFound, "Image not found")
	ErrCategoryNotFound   = domain.Errorf(domain.ErrNotFound, "Category not found")
	ErrCollectionNotFound = domain.Errorf(domain.ErrNotFound, "Collection not found")
	ErrOfferNotFound      = domain.Errorf(domain.ErrNotFound, "Offer not found")
	ErrUserNotFound       = domain.Errorf(domain.ErrNotFound, "User not found")
	ErrOrderNotFound      = domain.Errorf(domain.ErrNotFound, "Order not found")
	ErrEnquiryNotFound    = domain.Errorf(domain.ErrNotFound, "Message not found")
	ErrVariantNotFound    = domain.Errorf(domain.ErrNotFound, "Variant not found")
	ErrInsufficientStock  = domain.Errorf(domain.ErrConflict, "Insufficient stock")
)
