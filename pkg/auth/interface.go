package auth

//go:generate mockgen -destination=mocks/mock_auth.go -package=mocks taskboard/pkg/auth TokenManager,PasswordHasher

// TokenManager defines the interface for JWT token operations.
type TokenManager interface {
	// GenerateToken creates a signed token for a user session.
	GenerateToken(userID, role string, tokenVersion int) (string, error)
	// ValidateToken parses and validates a JWT token, returning the claims if valid.
	ValidateToken(tokenString string) (*Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

var (
	_ TokenManager   = (*JWTManager)(nil)
	_ PasswordHasher = (*BcryptHasher)(nil)
)
