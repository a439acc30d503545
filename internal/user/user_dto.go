package user

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Manager  *string `json:"manager"`
}

type UpdateUserRequest struct {
	Role      string  `json:"role" binding:"required,oneof=employee manager hr"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}
