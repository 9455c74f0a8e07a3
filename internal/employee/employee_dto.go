package employee

type CreateEmployeeRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	DepartmentID   string `json:"department_id" binding:"omitempty,uuid"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name" binding:"required"`
	EmployeeType   string `json:"employee_type" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT TEMPORARY INTERN"`
	Gender         string `json:"gender"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	JoinDate       string `json:"join_date"`
}

type UpdateEmployeeRequest struct {
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	FullName     string `json:"full_name"`
	EmployeeType string `json:"employee_type" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT TEMPORARY INTERN"`
	Gender       string `json:"gender"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	JoinDate     string `json:"join_date"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	DepartmentID   *string `json:"department_id,omitempty"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	EmployeeType   string  `json:"employee_type"`
	Gender         string  `json:"gender,omitempty"`
	Address        string  `json:"address,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	JoinDate       *string `json:"join_date,omitempty"`
}
