package service

import (
	"net/http"

	commonerrors "github.com/mkravtsov/taskdeck/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	ErrValidationUsernameLength = commonerrors.NewDomainError(
		"VALIDATION_USERNAME_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username length is out of range",
	)

	ErrValidationUsernameChars = commonerrors.NewDomainError(
		"VALIDATION_USERNAME_CHARS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username contains invalid characters",
	)

	ErrValidationPasswordLength = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password is empty or too long",
	)
)
