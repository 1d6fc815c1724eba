package model

// ListUsersRequest captures the supported directory list filters.
type ListUsersRequest struct {
	Role   string `form:"role"`
	Status string `form:"status"`
	Grade  string `form:"grade"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ListUsersResponse represents the directory listing response.
type ListUsersResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}

// GetUserResponse represents the single-user response.
type GetUserResponse struct {
	User User `json:"user"`
}
