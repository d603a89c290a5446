package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
	"github.com/AlibekovAA/book-review/internal/common/httpmetrics"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// Resolve maps err to a status and a user-facing message, recording metrics and
// logging along the way. Domain errors keep their own message; anything else
// becomes a 500 with a generic message.
func (h *ErrorHandler) Resolve(r *http.Request, err error) (int, string) {
	ctx := r.Context()
	path := httpmetrics.NormalizePath(r.URL.Path)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		if h.log.ShouldLog(logger.DEBUG) {
			h.log.WithFields(ctx, logger.Fields{
				"error_code": domainErr.Code(),
				"category":   string(domainErr.Category()),
				"status":     status,
				"action":     "domain_error",
			}).Debugf("domain error: %s", domainErr.Error())
		}

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(status),
		).Inc()
		metrics.HTTPErrorsTotal.WithLabelValues(strconv.Itoa(status), path, r.Method).Inc()

		return status, domainErr.Message()
	}

	h.log.WithFields(ctx, logger.Fields{
		"path":   r.URL.Path,
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		path,
		r.Method,
	).Inc()

	return http.StatusInternalServerError, commonerrors.ErrInternalError.Message()
}

// HandleError writes err as a JSON ErrorResponse.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	status, message := h.Resolve(r, err)
	WriteError(w, status, message)
}
