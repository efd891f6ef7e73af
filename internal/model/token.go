package model

// TokenManager generates and validates session tokens for logged-in users.
type TokenManager interface {
	Generate(username string) (string, error)
	Parse(token string) (string, error)
}
