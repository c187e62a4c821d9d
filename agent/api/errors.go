package api

import (
	"errors"
	"net/http"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/provider"
)

// mapProviderError translates the provider error taxonomy to HTTP codes:
// validation -> 400, conflict -> 409, not found -> 404, everything else
// (launch, stop, store, degraded) -> 500. Degraded state keeps its
// distinct reason so it can't be mistaken for ordinary failure.
func mapProviderError(err error) (res error) {
	var validationErr *provider.ValidationError
	switch {
	case errors.As(err, &validationErr):
		res = api_server.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrConflict):
		res = api_server.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, provider.ErrNotFound):
		res = api_server.NewError(http.StatusNotFound, err.Error())
	default:
		res = api_server.NewError(http.StatusInternalServerError, err.Error())
	}
	return
}
