package gateway

import (
	"time"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/example/bitebuddy/pkg/service"
)

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
	Location        string `json:"location"`
	ProfilePic      string `json:"profile_pic"`
}

func (r registerRequest) toService() service.RegisterRequest {
	return service.RegisterRequest{
		Name:            r.Name,
		Mobile:          r.Mobile,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Email:           r.Email,
		Location:        r.Location,
		ProfilePic:      r.ProfilePic,
	}
}

const (
	cartActionAdd    = "add"
	cartActionUpdate = "update"
)

type cartRequest struct {
	ItemID   uint            `json:"item_id" binding:"required"`
	ItemType models.ItemKind `json:"item_type" binding:"required"`
	Action   string          `json:"action"`
	Quantity *int            `json:"quantity"`
}

type cartQuery struct {
	ItemID   uint            `form:"item_id"`
	ItemType models.ItemKind `form:"item_type"`
}

type orderRequest struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

type messageResponse struct {
	ID      uint      `json:"id"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	Time    string    `json:"time"`
	Date    string    `json:"date"`
	SentAt  time.Time `json:"sent_at"`
	IsRead  bool      `json:"is_read"`
}

func toMessageResponses(messages []models.Message) []messageResponse {
	out := make([]messageResponse, len(messages))
	for i, m := range messages {
		out[i] = messageResponse{
			ID:      m.ID,
			Sender:  m.Sender,
			Content: m.Content,
			Time:    m.SentAt.Format("03:04 PM"),
			Date:    m.SentAt.Format("02 Jan"),
			SentAt:  m.SentAt,
			IsRead:  m.IsRead,
		}
	}
	return out
}
