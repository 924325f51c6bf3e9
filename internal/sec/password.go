package sec

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/stolasapp/quill/internal/storage"
)

// ComparePassword returns an error if the provided password does not resolve to
// the given hash. The comparison runs in constant time.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// HashPassword generates the hash for a given password. A password longer than
// 72 bytes is reported as a [storage.ValidationError].
func HashPassword[T ~string | ~[]byte](password T) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, storage.ValidationError{
			Field:   fieldPassword,
			Message: "Password must be at most 72 bytes.",
		}
	}
	return hash, err
}
