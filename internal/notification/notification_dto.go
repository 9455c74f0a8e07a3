package notification

type CreateNotificationRequest struct {
	RecipientEmployeeID string `json:"recipient_employee_id" binding:"required,uuid"`
	Title               string `json:"title" binding:"required"`
	Message             string `json:"message" binding:"required"`
	Type                string `json:"type"`
}

type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread"`
}

type NotificationResponse struct {
	ID                  string `json:"id"`
	RecipientEmployeeID string `json:"recipient_employee_id"`
	SenderUserID        string `json:"sender_user_id,omitempty"`
	Title               string `json:"title"`
	Message             string `json:"message"`
	Type                string `json:"type"`
	IsRead              bool   `json:"is_read"`
	CreatedAt           string `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
