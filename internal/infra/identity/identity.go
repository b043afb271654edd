package identity

import "context"

// User is what the identity collaborator supplies: a stable id plus display
// name (role comes along for free from the auth service).
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Provider interface {
	// Lookup returns (nil, nil) when no such identity exists.
	Lookup(ctx context.Context, userID string) (*User, error)
}

var _ Provider = (*Client)(nil)
