package service

import (
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
)

func (s *ServiceSuite) createOffer(title string, start, end *time.Time, active bool) *domain.Offer {
	offer, err := s.offers.Create(s.Ctx, &domain.OfferInput{
		Title:     &title,
		StartDate: start,
		EndDate:   end,
		IsActive:  &active,
	})
	s.Require().NoError(err)
	return offer
}

func offerTitles(offers []domain.Offer) []string {
	titles := make([]string, 0, len(offers))
	for _, o := range offers {
		titles = append(titles, o.Title)
	}
	return titles
}

func (s *ServiceSuite) TestActiveOffers_WindowContainsNow() {
	day := 24 * time.Hour
	newYear := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lastWeek, yesterday := newYear.Add(-7*day), newYear.Add(-day)
	tomorrow, nextWeek := newYear.Add(day), newYear.Add(7*day)

	s.createOffer("Open Ended", nil, nil, true)
	s.createOffer("New Year Sale", &yesterday, &tomorrow, true)
	s.createOffer("Starts Soon", &tomorrow, &nextWeek, true)
	s.createOffer("Already Over", &lastWeek, &yesterday, true)
	s.createOffer("Paused", &yesterday, &tomorrow, false)
	s.createOffer("No End", &yesterday, nil, true)

	live, err := s.offers.Active(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Open Ended", "New Year Sale", "No End"}, offerTitles(live))

	all, err := s.offers.List(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 6)
}

func (s *ServiceSuite) TestCreateOffer_Validation() {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	title := "Backwards"

	_, err := s.offers.Create(s.Ctx, &domain.OfferInput{Title: &title, StartDate: &start, EndDate: &end})
	s.ErrorIs(err, ErrInvalidOfferWindow)

	_, err = s.offers.Create(s.Ctx, &domain.OfferInput{StartDate: &start})
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrInvalidInput)

	offer, err := s.offers.Create(s.Ctx, &domain.OfferInput{Title: &title})
	s.Require().NoError(err)
	s.True(offer.IsActive)

	_, err = s.offers.Update(s.Ctx, offer.ID, &domain.OfferInput{StartDate: &start, EndDate: &end})
	s.ErrorIs(err, ErrInvalidOfferWindow)

	_, err = s.offers.Update(s.Ctx, 999, &domain.OfferInput{Title: &title})
	s.ErrorIs(err, repository.ErrOfferNotFound)
}

func (s *ServiceSuite) TestOfferImage_ReuploadReplacesURL() {
	offer := s.createOffer("Monsoon Sale", nil, nil, true)

	first, err := s.offers.UploadImage(s.Ctx, offer.ID, upload("rain.jpg"))
	s.Require().NoError(err)
	s.Require().NotNil(first.ImageURL)

	second, err := s.offers.UploadImage(s.Ctx, offer.ID, upload("clouds.jpg"))
	s.Require().NoError(err)
	s.Require().NotNil(second.ImageURL)
	s.NotEqual(*first.ImageURL, *second.ImageURL)
	s.Contains(*second.ImageURL, "https://cdn.test/offers/")

	s.Len(s.store.objects, 2)
	s.Empty(s.store.deleted)

	_, err = s.offers.UploadImage(s.Ctx, 999, upload("orphan.jpg"))
	s.ErrorIs(err, repository.ErrOfferNotFound)
	s.Len(s.store.objects, 2)
}
