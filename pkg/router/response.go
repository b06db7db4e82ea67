package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/xcontext"
)

type response struct {
	Code  errorx.Code `json:"code"`
	Error string      `json:"error,omitempty"`
	Data  any         `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return response{Code: errx.Code, Error: errx.Message}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
