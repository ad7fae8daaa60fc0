package crypto

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// PasswordHasher hides the hashing algorithm from callers. Compare returns
// a non-nil error for any mismatch or malformed hash; callers must treat
// that only as "no match", never as a fault to propagate.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
