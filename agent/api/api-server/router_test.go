package api_server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/akaspin/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
)

type echoProcessor struct{}

func (echoProcessor) Empty() interface{} {
	return &map[string]string{}
}

func (echoProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	res = v
	return
}

func TestRouter(t *testing.T) {
	log := logx.GetLog("test")
	router := api_server.NewRouter(log,
		api_server.POST("/v1/echo", echoProcessor{}),
	)
	server := httptest.NewServer(router)
	defer server.Close()

	t.Run(`ok`, func(t *testing.T) {
		res, err := server.Client().Post(server.URL+"/v1/echo", "application/json", strings.NewReader(`{"1":"2"}`))
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		raw, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"1":"2"}`, string(raw))
	})
	t.Run(`bad payload`, func(t *testing.T) {
		res, err := server.Client().Post(server.URL+"/v1/echo", "application/json", strings.NewReader(`{broken`))
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
	t.Run(`method not allowed`, func(t *testing.T) {
		res, err := server.Client().Get(server.URL + "/v1/echo")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	})
	t.Run(`not found`, func(t *testing.T) {
		res, err := server.Client().Get(server.URL + "/v1/missing")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
