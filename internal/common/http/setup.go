package http

import (
	"net/http"

	"github.com/AlibekovAA/book-review/internal/common/constants"
	"github.com/AlibekovAA/book-review/internal/common/httpmetrics"
	"github.com/AlibekovAA/book-review/internal/common/logger"
)

// BuildBaseHandler wraps handler in the shared chain. Extra middlewares run
// innermost, so they see the trace id and are covered by recovery and metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	csp := ContentSecurityPolicyMiddleware("")

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return SecurityHeadersMiddleware(csp(TraceIDMiddleware(recovery(maxRequestSize(collector.Wrap(handler))))))
}
