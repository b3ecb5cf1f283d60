// Package errors provides typed errors for webhook delivery failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// RequestError indicates the HTTP call itself failed before a response was
// obtained: network failure, malformed URL, timeout. StatusCode is zero when
// the underlying failure carried no status.
type RequestError struct {
	URL        string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook request failed (status %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("webhook request failed: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewRequestError creates a RequestError for the given webhook URL.
func NewRequestError(url string, cause error) *RequestError {
	return &RequestError{
		URL:   url,
		Cause: cause,
	}
}

// ResponseError indicates a response was obtained but its status code was not
// exactly 200. Any other status, including other 2xx codes, is a failure.
type ResponseError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// NewResponseError creates a ResponseError carrying the actual status code.
func NewResponseError(statusCode int, body string) *ResponseError {
	return &ResponseError{
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsRequestError checks if the error is a RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return stderrors.As(err, &reqErr)
}

// IsResponseError checks if the error is a ResponseError.
func IsResponseError(err error) bool {
	var respErr *ResponseError
	return stderrors.As(err, &respErr)
}

// StatusCode extracts the status code from a delivery error, or zero if the
// error carries none.
func StatusCode(err error) int {
	var respErr *ResponseError
	if stderrors.As(err, &respErr) {
		return respErr.StatusCode
	}
	var reqErr *RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
