package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Aleph-Alpha/embedding-server/pkg/model"
)

// Stable error kinds. Clients and dashboards key on these strings, so they
// never change even when the detail wording does.
const (
	KindValidation = "validation_error"
	KindNotReady   = "not_ready"
	KindModelLoad  = "model_load_error"
	KindInference  = "inference_error"
	KindTimeout    = "timeout_error"
)

// Error is the structured failure every handler resolves to before writing a
// response. Kind is the stable taxonomy string, Detail the human-readable
// explanation that ends up in the response body.
type Error struct {
	Kind   string
	Detail string
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Detail
}

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotReady, KindModelLoad:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func notReadyError(detail string) *Error {
	if detail == "" {
		detail = "model is still loading"
	}
	return &Error{Kind: KindNotReady, Detail: detail}
}

// translateModelErr folds the model package's sentinel errors into the API
// taxonomy. Raw error text from the inference runtime is passed through as
// detail; it never contains internal paths.
func translateModelErr(err error) *Error {
	switch {
	case errors.Is(err, model.ErrTimeout):
		return &Error{Kind: KindTimeout, Detail: "inference did not complete before the request deadline"}
	case errors.Is(err, model.ErrNotLoaded):
		return notReadyError("model is not loaded")
	case errors.Is(err, model.ErrModelLoad):
		return &Error{Kind: KindModelLoad, Detail: "model failed to load"}
	default:
		return &Error{Kind: KindInference, Detail: "inference failed"}
	}
}
