package service

import (
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
)

func (s *ServiceSuite) createCollection(name string, active bool, productIDs ...int64) *domain.Collection {
	collection, err := s.collections.Create(s.Ctx, &domain.CollectionInput{
		Name:       &name,
		IsActive:   &active,
		ProductIDs: productIDs,
	})
	s.Require().NoError(err)
	return collection
}

func (s *ServiceSuite) TestCollection_MembershipFollowsSortOrder() {
	lehenga := s.createProduct("Bridal Lehenga", "24999", 1, true)
	dupatta := s.createProduct("Zari Dupatta", "1999", 4, true)
	clutch := s.createProduct("Beaded Clutch", "899", 0, false)

	collection := s.createCollection("Wedding Edit", true, dupatta.ID, clutch.ID, lehenga.ID)
	s.Equal("wedding-edit", collection.Slug)

	got, err := s.collections.GetByID(s.Ctx, collection.ID, false)
	s.Require().NoError(err)
	s.Equal([]string{"Zari Dupatta", "Bridal Lehenga"}, productNames(got.Products))

	got, err = s.collections.GetByID(s.Ctx, collection.ID, true)
	s.Require().NoError(err)
	s.Equal([]string{"Zari Dupatta", "Beaded Clutch", "Bridal Lehenga"}, productNames(got.Products))

	_, err = s.collections.Update(s.Ctx, collection.ID, &domain.CollectionInput{ProductIDs: []int64{lehenga.ID, dupatta.ID}})
	s.Require().NoError(err)

	got, err = s.collections.GetByID(s.Ctx, collection.ID, false)
	s.Require().NoError(err)
	s.Equal([]string{"Bridal Lehenga", "Zari Dupatta"}, productNames(got.Products))
	s.Equal(2, s.countRows(`SELECT count(*) FROM collection_products WHERE collection_id = $1`, collection.ID))
}

func (s *ServiceSuite) TestCollection_FeaturedToggleAndVisibility() {
	summer := s.createCollection("Summer Cottons", true)
	archive := s.createCollection("Archive Sale", false)

	featured, err := s.collections.Featured(s.Ctx)
	s.Require().NoError(err)
	s.Empty(featured)

	toggled, err := s.collections.ToggleFeatured(s.Ctx, summer.ID)
	s.Require().NoError(err)
	s.True(toggled.IsFeatured)

	_, err = s.collections.ToggleFeatured(s.Ctx, archive.ID)
	s.Require().NoError(err)

	featured, err = s.collections.Featured(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(featured, 1)
	s.Equal(summer.ID, featured[0].ID)

	toggled, err = s.collections.ToggleFeatured(s.Ctx, summer.ID)
	s.Require().NoError(err)
	s.False(toggled.IsFeatured)

	public, err := s.collections.List(s.Ctx, false)
	s.Require().NoError(err)
	s.Len(public, 1)

	all, err := s.collections.List(s.Ctx, true)
	s.Require().NoError(err)
	s.Len(all, 2)

	_, err = s.collections.GetByID(s.Ctx, archive.ID, false)
	s.ErrorIs(err, repository.ErrCollectionNotFound)

	_, err = s.collections.ToggleFeatured(s.Ctx, 999)
	s.ErrorIs(err, repository.ErrCollectionNotFound)
}

func (s *ServiceSuite) TestCollectionImage_StoresPathAndResolvesURL() {
	collection := s.createCollection("Festive", true)

	first, err := s.collections.UploadImage(s.Ctx, collection.ID, upload("diwali.jpg"))
	s.Require().NoError(err)
	s.Require().NotNil(first.ImagePath)
	s.Require().NotNil(first.ImageURL)
	s.Equal("https://cdn.test/"+*first.ImagePath, *first.ImageURL)

	second, err := s.collections.UploadImage(s.Ctx, collection.ID, upload("holi.jpg"))
	s.Require().NoError(err)
	s.NotEqual(*first.ImagePath, *second.ImagePath)

	got, err := s.collections.GetByID(s.Ctx, collection.ID, false)
	s.Require().NoError(err)
	s.Equal(*second.ImagePath, *got.ImagePath)
	s.Equal("https://cdn.test/"+*second.ImagePath, *got.ImageURL)

	s.Len(s.store.objects, 2)
	s.Empty(s.store.deleted)
}
