package calendarevent

type CreateCalendarEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAllDay    *bool  `json:"is_all_day"`
}

type UpdateCalendarEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAllDay    *bool  `json:"is_all_day"`
}

type ListCalendarEventsQuery struct {
	// Month filters to a single calendar month, formatted YYYY-MM.
	Month string `form:"month"`
}

type CalendarEventResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	EventType       string `json:"event_type"`
	Location        string `json:"location,omitempty"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IsAllDay        bool   `json:"is_all_day"`
	CreatedByUserID string `json:"created_by_user_id,omitempty"`
}
