package handler

import (
	"time"

	"github.com/mbeckett/carworth/internal/domain"
)

// UserDTO is the JSON representation of a user. It is the only shape in
// which a user leaves the process: the password hash has no field here and
// can never be serialized.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// ReportDTO is the JSON representation of a report.
type ReportDTO struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	Mileage   int     `json:"mileage"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Price     float64 `json:"price"`
	Approved  bool    `json:"approved"`
	CreatedAt string  `json:"createdAt"`
}

func toReportDTO(r *domain.Report) ReportDTO {
	return ReportDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Make:      r.Make,
		Model:     r.Model,
		Year:      r.Year,
		Mileage:   r.Mileage,
		Lat:       r.Lat,
		Lng:       r.Lng,
		Price:     r.Price,
		Approved:  r.Approved,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toReportDTOs(reports []domain.Report) []ReportDTO {
	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		dtos[i] = toReportDTO(&reports[i])
	}
	return dtos
}

// EstimateDTO is the JSON representation of a value estimate.
type EstimateDTO struct {
	Price   float64 `json:"price"`
	Samples int     `json:"samples"`
}

// MessageDTO is the JSON representation of a message.
type MessageDTO struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{ID: m.ID, Content: m.Content}
}

func toMessageDTOs(messages []domain.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i := range messages {
		dtos[i] = toMessageDTO(&messages[i])
	}
	return dtos
}
