package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
)

var (
	ErrUsernameRequired = commonerrors.NewDomainError(
		"USERNAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"must provide a username",
	)

	ErrPasswordRequired = commonerrors.NewDomainError(
		"PASSWORD_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"must provide a password",
	)

	ErrPasswordMismatch = commonerrors.NewDomainError(
		"PASSWORD_MISMATCH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"passwords do not match",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username and/or password",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)
)

var validationErrors = map[string]commonerrors.DomainError{
	"username.required": ErrUsernameRequired,
	"password.required": ErrPasswordRequired,
	"confirm.eqfield":   ErrPasswordMismatch,
}

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
