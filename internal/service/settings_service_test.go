package service

import (
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
)

func (s *ServiceSuite) TestAnnouncement_DefaultThenSingleton() {
	got, err := s.settings.Announcement(s.Ctx)
	s.Require().NoError(err)
	s.Equal(domain.DefaultAnnouncement(), got)

	_, err = s.settings.SaveAnnouncement(s.Ctx, &domain.AnnouncementInput{Enabled: true, Message: "Diwali sale!", Type: "promo"})
	s.Require().NoError(err)

	saved, err := s.settings.SaveAnnouncement(s.Ctx, &domain.AnnouncementInput{Enabled: false, Message: "Back to normal"})
	s.Require().NoError(err)
	s.Equal("info", saved.Type)

	got, err = s.settings.Announcement(s.Ctx)
	s.Require().NoError(err)
	s.False(got.Enabled)
	s.Equal("Back to normal", got.Message)
	s.Equal("info", got.Type)
	s.NotNil(got.UpdatedAt)

	s.Equal(1, s.countRows(`SELECT count(*) FROM announcement`))
}
