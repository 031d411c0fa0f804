package model

// Contact is the public representation of a contact record as returned by
// the REST API.
type Contact struct {
	Id       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
}

// User is the public representation of an account as returned by the login
// and current-user endpoints.
type User struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// RegisterResponse is the body returned by a successful registration.
type RegisterResponse struct {
	Message           string `json:"message"`
	VerificationToken string `json:"verificationToken"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
