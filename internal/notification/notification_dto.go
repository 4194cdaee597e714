package notification

import "time"

type DispatchRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type ListNotificationsQuery struct {
	Month  int    `form:"month" binding:"required"`
	Year   int    `form:"year" binding:"required"`
	Status string `form:"status"`
}

type NotificationResponse struct {
	ID             uint    `json:"id"`
	EmployeeCode   string  `json:"employee_code"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	DeliveryStatus string  `json:"delivery_status"`
	Attempts       int     `json:"attempts"`
	LastError      *string `json:"last_error,omitempty"`
	NextAttemptAt  *string `json:"next_attempt_at,omitempty"`
	SentAt         *string `json:"sent_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		EmployeeCode:   n.EmployeeCode,
		Month:          n.Month,
		Year:           n.Year,
		DeliveryStatus: n.DeliveryStatus,
		Attempts:       n.Attempts,
		LastError:      n.LastError,
		NextAttemptAt:  formatTime(n.NextAttemptAt),
		SentAt:         formatTime(n.SentAt),
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(list []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(list))
	for i, n := range list {
		resp[i] = mapToResponse(n)
	}
	return resp
}
