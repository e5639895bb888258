package model

import "encoding/json"

// Credentials is the login/signup payload forwarded to the backend.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the backend's answer to a successful login or signup.
// User is passed through untouched.
type AuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}
