package commonerrors

import "errors"

var (
	ErrCircuitOpen   = errors.New("circuit breaker is open")
	ErrSessionAbsent = errors.New("session not found")
)
