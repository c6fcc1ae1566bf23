package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes and verifies passwords with bcrypt.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of a plaintext password. bcrypt rejects
// inputs longer than 72 bytes, which surfaces here as an error.
func (s *PasswordService) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash.
func (s *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
