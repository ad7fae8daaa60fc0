package service

import (
	"regexp"

	"github.com/mkravtsov/taskdeck/internal/common/constants"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidationUsernameLength
	}

	if !usernameRegex.MatchString(username) {
		return ErrValidationUsernameChars
	}

	// bcrypt rejects inputs over 72 bytes, catch it before hashing.
	if password == "" || len(password) > constants.PasswordMaxLength {
		return ErrValidationPasswordLength
	}

	return nil
}
