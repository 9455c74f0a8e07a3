package department

type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	HeadUserID  *string `json:"head_user_id" binding:"omitempty,uuid"`
}

type UpdateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	HeadUserID  *string `json:"head_user_id" binding:"omitempty,uuid"`
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	HeadUserID  *string `json:"head_user_id,omitempty"`
}
