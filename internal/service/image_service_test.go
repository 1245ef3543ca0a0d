package service

import (
	"errors"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
)

func (s *ServiceSuite) primaryImages(productID int64) []int64 {
	rows, err := s.DbPool.Query(s.Ctx, `SELECT id FROM product_images WHERE product_id = $1 AND is_primary ORDER BY id`, productID)
	s.Require().NoError(err)
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		s.Require().NoError(rows.Scan(&id))
		ids = append(ids, id)
	}
	s.Require().NoError(rows.Err())
	return ids
}

func (s *ServiceSuite) TestUploadImages_FirstBecomesPrimary() {
	product := s.createProduct("Anarkali Suit", "3499", 2, true)

	images, err := s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("front.jpg"), upload("back.jpg")})
	s.Require().NoError(err)
	s.Require().Len(images, 2)

	s.True(images[0].IsPrimary)
	s.False(images[1].IsPrimary)
	s.Equal("front.jpg", *images[0].AltText)
	s.Contains(images[0].ImageURL, "https://cdn.test/products/")
	s.Len(s.store.objects, 2)

	more, err := s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("side.jpg")})
	s.Require().NoError(err)
	s.False(more[0].IsPrimary)

	s.Equal([]int64{images[0].ID}, s.primaryImages(product.ID))

	got, err := s.products.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Require().NotNil(got.PrimaryImage)
	s.Equal(images[0].ImageURL, *got.PrimaryImage)
}

func (s *ServiceSuite) TestSetPrimary_ExactlyOnePrimary() {
	product := s.createProduct("Chikankari Kurti", "1599", 2, true)

	images, err := s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("a.jpg"), upload("b.jpg")})
	s.Require().NoError(err)
	a, b := images[0], images[1]

	s.Require().NoError(s.images.SetPrimary(s.Ctx, product.ID, b.ID))
	s.Equal([]int64{b.ID}, s.primaryImages(product.ID))

	s.Require().NoError(s.images.SetPrimary(s.Ctx, product.ID, a.ID))
	s.Equal([]int64{a.ID}, s.primaryImages(product.ID))

	s.Require().NoError(s.images.SetPrimary(s.Ctx, product.ID, a.ID))
	s.Equal([]int64{a.ID}, s.primaryImages(product.ID))
}

func (s *ServiceSuite) TestSetPrimary_ImageOfAnotherProduct() {
	first := s.createProduct("Palazzo", "899", 2, true)
	second := s.createProduct("Dhoti Pants", "999", 2, true)

	images, err := s.images.UploadProductImages(s.Ctx, first.ID, []Upload{upload("p.jpg")})
	s.Require().NoError(err)

	err = s.images.SetPrimary(s.Ctx, second.ID, images[0].ID)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Equal([]int64{images[0].ID}, s.primaryImages(first.ID))

	err = s.images.SetPrimary(s.Ctx, 999, images[0].ID)
	s.ErrorIs(err, repository.ErrProductNotFound)
}

func (s *ServiceSuite) TestDeleteImage_PromotesNextPrimary() {
	product := s.createProduct("Sherwani", "12999", 1, true)

	images, err := s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("1.jpg"), upload("2.jpg"), upload("3.jpg")})
	s.Require().NoError(err)

	s.Require().NoError(s.images.DeleteImage(s.Ctx, product.ID, images[0].ID))
	s.Equal([]int64{images[1].ID}, s.primaryImages(product.ID))

	s.Require().NoError(s.images.DeleteImage(s.Ctx, product.ID, images[2].ID))
	s.Equal([]int64{images[1].ID}, s.primaryImages(product.ID))

	s.Len(s.store.objects, 3)

	err = s.images.DeleteImage(s.Ctx, product.ID, images[0].ID)
	s.ErrorIs(err, repository.ErrImageNotFound)
}

func (s *ServiceSuite) TestUploadImages_PartialBatch() {
	product := s.createProduct("Nehru Jacket", "2199", 3, true)
	s.store.failOn = 2

	images, err := s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("ok.jpg"), upload("broken.jpg"), upload("never.jpg")})
	s.Require().Error(err)

	var uploadErr *UploadError
	s.Require().True(errors.As(err, &uploadErr))
	s.Equal("broken.jpg", uploadErr.Filename)
	s.ErrorIs(err, errStorageDown)

	s.Require().Len(images, 1)
	s.Equal("ok.jpg", *images[0].AltText)
	s.True(images[0].IsPrimary)

	s.Equal(1, s.countRows(`SELECT count(*) FROM product_images WHERE product_id = $1`, product.ID))
	s.Equal(2, s.store.uploads)
}

func (s *ServiceSuite) TestUploadImages_Rejected() {
	_, err := s.images.UploadProductImages(s.Ctx, 1, nil)
	s.ErrorIs(err, ErrNoFiles)

	_, err = s.images.UploadProductImages(s.Ctx, 999, []Upload{upload("x.jpg")})
	s.ErrorIs(err, repository.ErrProductNotFound)
	s.Zero(s.store.uploads)
}

func (s *ServiceSuite) TestImageChangesInvalidateCache() {
	product := s.createProduct("Kolhapuri Chappal", "1299", 5, true)

	_, err := s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Equal(int64(1), s.Redis.Exists(s.Ctx, productKey(product.ID)).Val())

	_, err = s.images.UploadProductImages(s.Ctx, product.ID, []Upload{upload("pair.jpg")})
	s.Require().NoError(err)
	s.Zero(s.Redis.Exists(s.Ctx, productKey(product.ID)).Val())

	got, err := s.cached.GetByID(s.Ctx, product.ID, false)
	s.Require().NoError(err)
	s.Len(got.Images, 1)
}
