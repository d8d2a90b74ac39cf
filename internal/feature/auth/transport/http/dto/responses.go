package dto

// ErrorRes is the generic error response body.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is the generic success response body.
type MessageRes struct {
	Message string `json:"message"`
}

// TokenRes carries the signed JWT returned by a successful login.
type TokenRes struct {
	Token string `json:"token"`
}

// ProfileRes is the public view of a user.
// It deliberately omits the email address and credentials.
type ProfileRes struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	Plan string `json:"plan"`
}
