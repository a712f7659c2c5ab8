package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the existing user records were hashed with.
const bcryptCost = 10

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
// A wrong password is not an error, just false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
