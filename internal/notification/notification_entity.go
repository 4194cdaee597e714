package notification

import "time"

const (
	StatusUnsent     = "UNSENT"
	StatusProcessing = "PROCESSING"
	StatusSent       = "SENT"
	StatusFailed     = "FAILED"
)

// Notification tracks delivery of the salary message for one payslip.
// Sent is terminal; Failed is picked up again by the backlog sweep.
type Notification struct {
	ID             uint       `gorm:"primaryKey"`
	EmployeeCode   string     `gorm:"size:32;not null;uniqueIndex:uq_notification_employee_period,priority:1"`
	MessageContent string     `gorm:"type:text;not null"`
	Month          int        `gorm:"not null;uniqueIndex:uq_notification_employee_period,priority:2;index:idx_notification_status_period,priority:2"`
	Year           int        `gorm:"not null;uniqueIndex:uq_notification_employee_period,priority:3;index:idx_notification_status_period,priority:3"`
	DeliveryStatus string     `gorm:"size:16;not null;default:UNSENT;index:idx_notification_status_period,priority:1"`
	Attempts       int        `gorm:"not null;default:0"`
	LastError      *string    `gorm:"size:500"`
	NextAttemptAt  *time.Time
	SentAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

func (n Notification) IsSent() bool {
	return n.DeliveryStatus == StatusSent
}

func validStatus(status string) bool {
	switch status {
	case StatusUnsent, StatusProcessing, StatusSent, StatusFailed:
		return true
	}
	return false
}
