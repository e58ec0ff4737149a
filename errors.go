package inkwell

import (
	"errors"
	"net/http"

	"github.com/eringen/inkwell/views"
)

// Page controller failures. Each is logged and rendered as an inline message
// in the content area; none is retried.
var (
	ErrIndexFetch    = errors.New("inkwell: fetch post index")
	ErrPostNotFound  = errors.New("inkwell: post not in index")
	ErrMarkdownFetch = errors.New("inkwell: fetch post markdown")
	ErrMissingFile   = errors.New("inkwell: missing file parameter")
)

// errorStatus maps a controller error to its status code and visitor-facing
// message.
func errorStatus(err error, msgs views.Messages) (int, string) {
	switch {
	case errors.Is(err, ErrMissingFile):
		return http.StatusBadRequest, msgs.MissingFile
	case errors.Is(err, ErrPostNotFound):
		return http.StatusNotFound, msgs.PostNotFound
	case errors.Is(err, ErrIndexFetch):
		return http.StatusBadGateway, msgs.IndexFailed
	case errors.Is(err, ErrMarkdownFetch):
		return http.StatusBadGateway, msgs.MarkdownFailed
	default:
		return http.StatusInternalServerError, msgs.ServerError
	}
}
