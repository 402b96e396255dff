package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Role            string `json:"role"`
}
