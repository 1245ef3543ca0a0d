package service

import (
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/shopspring/decimal"
)

func shipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:       "Asha Verma",
		Phone:      "+919800000000",
		Address:    "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
	}
}

func (s *ServiceSuite) stock(productID int64) int32 {
	product, err := s.productRepo.GetByID(s.Ctx, productID)
	s.Require().NoError(err)
	return product.Quantity
}

func (s *ServiceSuite) TestPlaceOrder_PricesAndDecrementsStock() {
	customer := s.createUser("ext-buyer", "buyer@example.com")
	kurta := s.createProduct("Cotton Kurta", "799.50", 10, true)
	shawl := s.createProduct("Wool Shawl", "2499", 2, true)

	order, err := s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items: []domain.OrderLineInput{
			{ProductID: kurta.ID, Quantity: 2},
			{ProductID: shawl.ID, Quantity: 1},
		},
		Shipping: shipping(),
	})
	s.Require().NoError(err)

	s.Equal(domain.OrderPending, order.Status)
	s.Equal("cod", order.PaymentMethod)
	s.True(order.Total.Equal(decimal.RequireFromString("4098")), order.Total.String())
	s.Require().Len(order.Items, 2)
	s.Equal("Cotton Kurta", order.Items[0].ProductName)

	s.Equal(int32(8), s.stock(kurta.ID))
	s.Equal(int32(1), s.stock(shawl.ID))
	s.Equal(1, s.countRows(`SELECT count(*) FROM outbox WHERE event_type = 'OrderPlaced'`))
}

func (s *ServiceSuite) TestPlaceOrder_VariantPriceAndStock() {
	customer := s.createUser("ext-buyer", "buyer@example.com")
	adj := decimal.RequireFromString("200")

	product, err := s.products.Create(s.Ctx, &domain.CreateProductInput{
		Name:     "Silk Saree",
		Price:    decimal.RequireFromString("5000"),
		Quantity: 10,
		Variants: []domain.VariantInput{{Name: "Color", Value: "Maroon", Quantity: 2, PriceAdjustment: &adj}},
	})
	s.Require().NoError(err)
	variantID := product.Variants[0].ID

	order, err := s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items:    []domain.OrderLineInput{{ProductID: product.ID, VariantID: &variantID, Quantity: 2}},
		Shipping: shipping(),
	})
	s.Require().NoError(err)
	s.True(order.Total.Equal(decimal.RequireFromString("10400")), order.Total.String())
	s.Equal("Color: Maroon", *order.Items[0].VariantLabel)

	_, err = s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items:    []domain.OrderLineInput{{ProductID: product.ID, VariantID: &variantID, Quantity: 1}},
		Shipping: shipping(),
	})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *ServiceSuite) TestPlaceOrder_InsufficientStockRollsBack() {
	customer := s.createUser("ext-buyer", "buyer@example.com")
	kurta := s.createProduct("Cotton Kurta", "799", 5, true)
	shawl := s.createProduct("Wool Shawl", "2499", 1, true)

	_, err := s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items: []domain.OrderLineInput{
			{ProductID: kurta.ID, Quantity: 2},
			{ProductID: shawl.ID, Quantity: 3},
		},
		Shipping: shipping(),
	})
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrConflict)

	s.Equal(int32(5), s.stock(kurta.ID))
	s.Equal(int32(1), s.stock(shawl.ID))
	s.Zero(s.countRows(`SELECT count(*) FROM orders`))
}

func (s *ServiceSuite) TestPlaceOrder_InactiveProduct() {
	customer := s.createUser("ext-buyer", "buyer@example.com")
	hidden := s.createProduct("Retired Dupatta", "399", 5, false)

	_, err := s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items:    []domain.OrderLineInput{{ProductID: hidden.ID, Quantity: 1}},
		Shipping: shipping(),
	})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *ServiceSuite) TestOrderVisibilityAndCancelRestocks() {
	owner := s.createUser("ext-owner", "owner@example.com")
	stranger := s.createUser("ext-stranger", "stranger@example.com")
	admin := &domain.User{ID: 0, Role: domain.RoleAdmin}
	kurta := s.createProduct("Cotton Kurta", "799", 5, true)

	order, err := s.orders.Place(s.Ctx, owner, &domain.PlaceOrderInput{
		Items:    []domain.OrderLineInput{{ProductID: kurta.ID, Quantity: 3}},
		Shipping: shipping(),
	})
	s.Require().NoError(err)
	s.Equal(int32(2), s.stock(kurta.ID))

	_, err = s.orders.Get(s.Ctx, stranger, order.ID)
	s.ErrorIs(err, repository.ErrOrderNotFound)

	got, err := s.orders.Get(s.Ctx, owner, order.ID)
	s.Require().NoError(err)
	s.Len(got.Items, 1)

	_, err = s.orders.Get(s.Ctx, admin, order.ID)
	s.Require().NoError(err)

	mine, err := s.orders.ListMine(s.Ctx, stranger)
	s.Require().NoError(err)
	s.Empty(mine)

	_, err = s.orders.UpdateStatus(s.Ctx, order.ID, domain.OrderDelivered)
	s.ErrorIs(err, domain.ErrInvalidInput)

	cancelled, err := s.orders.UpdateStatus(s.Ctx, order.ID, domain.OrderCancelled)
	s.Require().NoError(err)
	s.Equal(domain.OrderCancelled, cancelled.Status)
	s.Equal(int32(5), s.stock(kurta.ID))

	pending, err := s.orders.ListAll(s.Ctx, domain.OrderPending)
	s.Require().NoError(err)
	s.Empty(pending)

	s.Equal(1, s.countRows(`SELECT count(*) FROM outbox WHERE event_type = 'OrderStatusChanged'`))
}

func (s *ServiceSuite) TestOrderStockChangesInvalidateCache() {
	customer := s.createUser("ext-buyer", "buyer@example.com")
	kurta := s.createProduct("Cotton Kurta", "799", 5, true)
	key := productKey(kurta.ID)

	cached, err := s.cached.GetByID(s.Ctx, kurta.ID, false)
	s.Require().NoError(err)
	s.Equal(int32(5), cached.Quantity)
	s.Equal(int64(1), s.Redis.Exists(s.Ctx, key).Val())

	order, err := s.orders.Place(s.Ctx, customer, &domain.PlaceOrderInput{
		Items:    []domain.OrderLineInput{{ProductID: kurta.ID, Quantity: 3}},
		Shipping: shipping(),
	})
	s.Require().NoError(err)
	s.Zero(s.Redis.Exists(s.Ctx, key).Val())

	got, err := s.cached.GetByID(s.Ctx, kurta.ID, false)
	s.Require().NoError(err)
	s.Equal(int32(2), got.Quantity)

	_, err = s.orders.UpdateStatus(s.Ctx, order.ID, domain.OrderCancelled)
	s.Require().NoError(err)
	s.Zero(s.Redis.Exists(s.Ctx, key).Val())

	got, err = s.cached.GetByID(s.Ctx, kurta.ID, false)
	s.Require().NoError(err)
	s.Equal(int32(5), got.Quantity)
}
