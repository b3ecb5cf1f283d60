// Package receipt provides the delivery receipt returned by a successful send.
package receipt

import (
	"net/http"
	"time"
)

// Receipt captures the webhook endpoint's response to an accepted message so
// the caller can inspect it further if desired.
type Receipt struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"-"`
	Body       []byte      `json:"-"`
	Timestamp  time.Time   `json:"timestamp"`
}

// New creates a receipt from a received response.
func New(statusCode int, header http.Header, body []byte) *Receipt {
	return &Receipt{
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
		Timestamp:  time.Now(),
	}
}

// IsSuccess returns true if the endpoint accepted the message.
func (r *Receipt) IsSuccess() bool {
	return r.StatusCode == http.StatusOK
}
