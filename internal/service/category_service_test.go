package service

import (
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *ServiceSuite) createCategory(name string, gender *string) *domain.Category {
	category, err := s.categories.Create(s.Ctx, &domain.CategoryInput{Name: &name, Gender: gender})
	s.Require().NoError(err)
	return category
}

func (s *ServiceSuite) createProductIn(name string, categoryID *int64, gender *string) *domain.Product {
	active := true
	product, err := s.products.Create(s.Ctx, &domain.CreateProductInput{
		Name:       name,
		Price:      decimal.RequireFromString("999"),
		Quantity:   5,
		CategoryID: categoryID,
		Gender:     gender,
		IsActive:   &active,
	})
	s.Require().NoError(err)
	return product
}

func productNames(products []domain.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func (s *ServiceSuite) TestCreateCategory_SlugPrefixedWithGender() {
	men := "Men"
	kurtas := s.createCategory("Festive Kurtas", &men)
	s.Equal("men-festive-kurtas", kurtas.Slug)

	accessories := s.createCategory("Accessories", nil)
	s.Equal("accessories", accessories.Slug)

	women := "Women"
	womenKurtas := s.createCategory("Festive Kurtas", &women)
	s.Equal("women-festive-kurtas", womenKurtas.Slug)

	_, err := s.categories.Create(s.Ctx, &domain.CategoryInput{})
	s.ErrorIs(err, ErrNameRequired)
}

func (s *ServiceSuite) TestCategoryImage_ReuploadReplacesURLAndKeepsBlob() {
	category := s.createCategory("Sarees", nil)

	first, err := s.categories.UploadImage(s.Ctx, category.ID, upload("silk.jpg"))
	s.Require().NoError(err)
	s.Require().NotNil(first.ImageURL)

	second, err := s.categories.UploadImage(s.Ctx, category.ID, upload("banarasi.jpg"))
	s.Require().NoError(err)
	s.Require().NotNil(second.ImageURL)

	s.NotEqual(*first.ImageURL, *second.ImageURL)
	s.Contains(*second.ImageURL, "banarasi.jpg")
	s.Len(s.store.objects, 2)
	s.Empty(s.store.deleted)
}

func (s *ServiceSuite) TestListProducts_CategoryAndGenderFilters() {
	men, women := "Men", "Women"
	kurtas := s.createCategory("Kurtas", &men)
	kurtis := s.createCategory("Kurtis", &women)

	s.createProductIn("Linen Kurta", &kurtas.ID, nil)
	s.createProductIn("Printed Kurti", &kurtis.ID, nil)
	s.createProductIn("Nehru Jacket", nil, &men)

	bySlug, err := s.products.List(s.Ctx, catalog.Filter{Category: "men-kurtas"})
	s.Require().NoError(err)
	s.Equal([]string{"Linen Kurta"}, productNames(bySlug))

	byName, err := s.products.List(s.Ctx, catalog.Filter{Category: "Kurtis"})
	s.Require().NoError(err)
	s.Equal([]string{"Printed Kurti"}, productNames(byName))

	byGender, err := s.products.List(s.Ctx, catalog.Filter{Gender: "Men"})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Linen Kurta", "Nehru Jacket"}, productNames(byGender))
}

func (s *ServiceSuite) TestCategoryChanges_InvalidateCachedProducts() {
	men := "Men"
	category := s.createCategory("Kurtas", &men)
	product := s.createProductIn("Linen Kurta", &category.ID, nil)
	key := productKey(product.ID)

	cached, err := s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Require().NotNil(cached.CategoryName)
	s.Equal("Kurtas", *cached.CategoryName)

	renamed := "Festive Kurtas"
	_, err = s.categories.Update(s.Ctx, category.ID, &domain.CategoryInput{Name: &renamed})
	s.Require().NoError(err)
	s.Zero(s.Redis.Exists(s.Ctx, key).Val())

	got, err := s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Equal("Festive Kurtas", *got.CategoryName)

	s.Require().NoError(s.categories.Delete(s.Ctx, category.ID))
	s.Zero(s.Redis.Exists(s.Ctx, key).Val())

	got, err = s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Nil(got.CategoryID)
	s.Nil(got.CategoryName)
}
