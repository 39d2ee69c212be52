package request

// LoginRequest selects the current staff member. PIN is only checked for
// users that have one.
type LoginRequest struct {
	UserID string `json:"user_id" binding:"required"`
	PIN    string `json:"pin" binding:"omitempty,max=32"`
}

// SaveUserRequest creates or updates a staff member. A nil PIN keeps the
// current one and an empty PIN clears it.
type SaveUserRequest struct {
	ID   string  `json:"id" binding:"omitempty,max=64"`
	Name string  `json:"name" binding:"required,min=1,max=255"`
	Role string  `json:"role" binding:"omitempty,max=50"`
	PIN  *string `json:"pin" binding:"omitempty,max=32"`
}
