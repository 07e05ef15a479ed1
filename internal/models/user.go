package models

const RoleAdmin = "ADMIN"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the full name, like the navigation greeting.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}

	return u.Username
}

// for registration
type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// for login
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// /users/check-login
type LoginStatus struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// shared shape of /users/login, /users/current, /users/register and /users/logout
type SessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}
