package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost. The salt
// is random per call, so two hashes of the same input differ.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value. A
// mismatch and a malformed digest both return a non-nil error; callers
// must fold either into a single authentication failure.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
