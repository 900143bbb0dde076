package model

// User represents a registered user. Created at registration, immutable after.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterRequest is the request to register a new user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the request to log in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned from login, registration, and session restore.
type SessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
