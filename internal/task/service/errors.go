package service

import (
	"net/http"

	commonerrors "github.com/mkravtsov/taskdeck/internal/common/errors"
)

var (
	ErrTaskNotFound = commonerrors.NewDomainError(
		"TASK_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"task not found",
	)

	ErrValidationEmptyTitle = commonerrors.NewDomainError(
		"VALIDATION_EMPTY_TITLE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"title must not be empty",
	)

	ErrValidationTitleTooLong = commonerrors.NewDomainError(
		"VALIDATION_TITLE_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"title is too long",
	)

	ErrValidationNoUpdateFields = commonerrors.NewDomainError(
		"VALIDATION_NO_UPDATE_FIELDS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"no fields to update",
	)

	ErrValidationInvalidLimit = commonerrors.NewDomainError(
		"VALIDATION_INVALID_LIMIT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"limit must be between 1 and 100",
	)

	ErrValidationInvalidOffset = commonerrors.NewDomainError(
		"VALIDATION_INVALID_OFFSET",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"offset must not be negative",
	)

	ErrValidationInvalidCompleted = commonerrors.NewDomainError(
		"VALIDATION_INVALID_COMPLETED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"completed must be true or false",
	)

	ErrValidationInvalidTaskID = commonerrors.NewDomainError(
		"VALIDATION_INVALID_TASK_ID",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"task id must be a positive integer",
	)
)
