package service

import (
	"encoding/json"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/shopspring/decimal"
)

func (s *ServiceSuite) TestCreateProduct_WithVariants() {
	desc := "Handwoven"
	adj := decimal.RequireFromString("150")

	product, err := s.products.Create(s.Ctx, &domain.CreateProductInput{
		Name:        "Banarasi Silk Saree",
		Description: &desc,
		Price:       decimal.RequireFromString("4999.00"),
		Quantity:    5,
		Variants: []domain.VariantInput{
			{Name: "Color", Value: "Red", Quantity: 2},
			{Name: "Color", Value: "Gold", Quantity: 3, PriceAdjustment: &adj},
		},
	})
	s.Require().NoError(err)

	s.True(product.IsActive)
	s.Regexp(`^banarasi-silk-saree-\d+$`, product.Slug)
	s.True(product.Price.Equal(decimal.RequireFromString("4999")))
	s.Require().Len(product.Variants, 2)
	s.Empty(product.Images)

	s.Equal(1, s.countRows(`SELECT count(*) FROM outbox WHERE event_type = 'ProductCreated'`))
}

func (s *ServiceSuite) TestListProducts_SortingAndVisibility() {
	s.createProduct("Cotton Kurta", "799", 10, true)
	s.createProduct("Linen Shirt", "1299", 10, true)
	s.createProduct("Wool Shawl", "2499", 10, false)

	low, err := s.products.List(s.Ctx, catalog.Filter{Sort: catalog.SortPriceLow})
	s.Require().NoError(err)
	s.Require().Len(low, 2)
	s.Equal("Cotton Kurta", low[0].Name)
	s.Equal("Linen Shirt", low[1].Name)

	high, err := s.products.List(s.Ctx, catalog.Filter{Sort: catalog.SortPriceHigh, IncludeInactive: true})
	s.Require().NoError(err)
	s.Require().Len(high, 3)
	s.Equal("Wool Shawl", high[0].Name)

	search, err := s.products.List(s.Ctx, catalog.Filter{Search: "kurta"})
	s.Require().NoError(err)
	s.Require().Len(search, 1)

	arrivals, err := s.products.NewArrivals(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(arrivals, 2)
	s.Equal("Linen Shirt", arrivals[0].Name)
}

func (s *ServiceSuite) TestGetProduct_InactiveHiddenFromCustomers() {
	hidden := s.createProduct("Archived Lehenga", "8999", 1, false)

	_, err := s.products.GetByID(s.Ctx, hidden.ID, false)
	s.ErrorIs(err, repository.ErrProductNotFound)

	got, err := s.products.GetByID(s.Ctx, hidden.ID, true)
	s.Require().NoError(err)
	s.Equal(hidden.ID, got.ID)
}

func (s *ServiceSuite) TestUpdateProduct() {
	product := s.createProduct("Plain Tee", "499", 3, true)

	name := "Graphic Tee"
	price := decimal.RequireFromString("599")
	updated, err := s.products.Update(s.Ctx, product.ID, &domain.UpdateProductInput{Name: &name, Price: &price})
	s.Require().NoError(err)

	s.Equal("Graphic Tee", updated.Name)
	s.NotEqual(product.Slug, updated.Slug)
	s.Regexp(`^graphic-tee-\d+$`, updated.Slug)
	s.True(updated.Price.Equal(price))
	s.Equal(int32(3), updated.Quantity)

	_, err = s.products.Update(s.Ctx, product.ID, &domain.UpdateProductInput{})
	s.ErrorIs(err, ErrNoUpdateData)

	_, err = s.products.Update(s.Ctx, 999, &domain.UpdateProductInput{Name: &name})
	s.ErrorIs(err, repository.ErrProductNotFound)
}

func (s *ServiceSuite) TestDeleteProduct() {
	product := s.createProduct("Denim Jacket", "2999", 2, true)

	s.Require().NoError(s.products.Delete(s.Ctx, product.ID))

	_, err := s.products.GetByID(s.Ctx, product.ID, true)
	s.ErrorIs(err, repository.ErrProductNotFound)
	s.ErrorIs(s.products.Delete(s.Ctx, product.ID), repository.ErrProductNotFound)

	s.Equal(1, s.countRows(`SELECT count(*) FROM outbox WHERE event_type = 'ProductDeleted'`))
}

func (s *ServiceSuite) TestCachedProduct_InvalidatedOnUpdate() {
	product := s.createProduct("Silk Dupatta", "999", 4, true)
	key := productKey(product.ID)

	_, err := s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)

	raw, err := s.Redis.Get(s.Ctx, key).Bytes()
	s.Require().NoError(err)

	var cached domain.Product
	s.Require().NoError(json.Unmarshal(raw, &cached))
	s.Equal("Silk Dupatta", cached.Name)

	inactive := false
	_, err = s.cached.Update(s.Ctx, product.ID, &domain.UpdateProductInput{IsActive: &inactive})
	s.Require().NoError(err)

	s.Zero(s.Redis.Exists(s.Ctx, key).Val())

	_, err = s.cached.GetByID(s.Ctx, product.ID, false)
	s.ErrorIs(err, repository.ErrProductNotFound)

	s.Equal(int64(1), s.Redis.Exists(s.Ctx, key).Val())
	got, err := s.cached.GetByID(s.Ctx, product.ID, true)
	s.Require().NoError(err)
	s.False(got.IsActive)
}
