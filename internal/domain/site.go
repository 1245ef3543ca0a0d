package domain

import "time"

type Announcement struct {
	Enabled   bool       `json:"enabled"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DefaultAnnouncement is served while no announcement has been saved.
func DefaultAnnouncement() *Announcement {
	return &Announcement{Enabled: false, Message: "", Type: "info"}
}

type AnnouncementInput struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message" validate:"max=500"`
	Type    string `json:"type" validate:"omitempty,oneof=info warning success promo"`
}

const (
	EnquiryUnread  = "unread"
	EnquiryRead    = "read"
	EnquiryReplied = "replied"
)

type Enquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   *string   `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type EnquiryInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type AdminStats struct {
	Products        int64     `json:"products"`
	Collections     int64     `json:"collections"`
	ActiveOffers    int64     `json:"offers"`
	UnreadEnquiries int64     `json:"enquiries"`
	RecentProducts  []Product `json:"-"`
}
