package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
)

var (
	ErrNoMatches = commonerrors.NewDomainError(
		"NO_MATCHES",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"no matches",
	)

	ErrInvalidISBN = commonerrors.NewDomainError(
		"INVALID_ISBN",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"invalid ISBN number",
	)

	ErrRatingRequired = commonerrors.NewDomainError(
		"RATING_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"please select your rating",
	)

	ErrRatingNotInteger = commonerrors.NewDomainError(
		"RATING_NOT_INTEGER",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"rating must be a whole number",
	)

	ErrDuplicateReview = commonerrors.NewDomainError(
		"DUPLICATE_REVIEW",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"you cannot post more than one review",
	)
)
