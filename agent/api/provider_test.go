package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akaspin/logx"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtters/mesos/agent/api"
	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/bus"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/fixture"
	"github.com/jwtters/mesos/proto"
)

type apiFixture struct {
	server    *httptest.Server
	store     *provider.Store
	instances *provider.InstanceManager
	consumer  *bus.TestingConsumer
}

func newAPIFixture(t *testing.T) (f *apiFixture) {
	t.Helper()
	log := logx.GetLog("test")
	ctx := context.Background()
	f = &apiFixture{
		store: provider.NewStore(ctx, log, t.TempDir()),
		instances: provider.NewInstanceManager(ctx, log, provider.InstanceOptions{
			WorkDir:         t.TempDir(),
			LaunchTimeout:   time.Second * 10,
			StopGracePeriod: time.Second,
		}),
		consumer: bus.NewTestingConsumer(),
	}
	manager := provider.NewManager(ctx, log, f.store, f.instances, provider.NewBusPublisher(log, f.consumer))
	require.NoError(t, f.store.Open())
	require.NoError(t, f.instances.Open())
	require.NoError(t, manager.Open())

	validator := provider.NewValidator()
	router := api_server.NewRouter(log,
		api.NewProviderGet(log, manager),
		api.NewProviderAdd(log, validator, manager),
		api.NewProviderUpdate(log, validator, manager),
		api.NewProviderDelete(log, manager),
		api.NewStatusPingGet(),
	)
	f.server = httptest.NewServer(router)
	t.Cleanup(func() {
		f.server.Close()
		manager.Close()
		f.instances.Close()
		f.store.Close()
	})
	return
}

func (f *apiFixture) post(t *testing.T, method string, config *provider.Config) (res *http.Response) {
	t.Helper()
	data, err := json.Marshal(config)
	require.NoError(t, err)
	req, err := http.NewRequest(method, f.server.URL+proto.V1Provider, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err = f.server.Client().Do(req)
	require.NoError(t, err)
	return
}

func testPluginConfig(t *testing.T, dir, name string, capacity map[string]string) (config *provider.Config) {
	t.Helper()
	script := fixture.WritePluginScript(t, dir, fmt.Sprintf("%s.sh", name), capacity)
	config = &provider.Config{
		Type: "org.apache.mesos.rp.local.storage",
		Name: name,
		DefaultReservations: []provider.Reservation{
			{Type: "DYNAMIC", Role: "storage"},
		},
		Plugin: provider.PluginSpec{
			Services: []string{"CONTROLLER_SERVICE", "NODE_SERVICE"},
			Command:  provider.CommandSpec{Value: script},
		},
	}
	return
}

func TestProviderAPI(t *testing.T) {
	f := newAPIFixture(t)
	dir := t.TempDir()
	config := testPluginConfig(t, dir, "volume-1", map[string]string{"disk": "4096"})
	id := config.GetID()

	t.Run(`add`, func(t *testing.T) {
		res := f.post(t, http.MethodPost, config)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var ack proto.ProviderResponse
		assert.NoError(t, json.NewDecoder(res.Body).Decode(&ack))
		assert.Equal(t, proto.ProviderResponse{Type: config.Type, Name: config.Name}, ack)
		fixture.WaitNoErrorT10(t, f.consumer.ExpectLastMessageFn(
			bus.NewMessage(id.String(), map[string]string{"disk": "4096"}),
		))
	})
	t.Run(`add conflict`, func(t *testing.T) {
		res := f.post(t, http.MethodPost, config)
		defer res.Body.Close()
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})
	t.Run(`add invalid`, func(t *testing.T) {
		invalid := config.Clone()
		invalid.Type = "com.example.storage"
		res := f.post(t, http.MethodPost, invalid)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
	t.Run(`get`, func(t *testing.T) {
		res, err := f.server.Client().Get(f.server.URL + proto.V1Provider)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var configs []*provider.Config
		assert.NoError(t, json.NewDecoder(res.Body).Decode(&configs))
		require.Len(t, configs, 1)
		assert.True(t, config.IsEqual(configs[0]))
	})
	t.Run(`update`, func(t *testing.T) {
		updated := testPluginConfig(t, dir, "volume-1", map[string]string{"disk": "8192"})
		res := f.post(t, http.MethodPut, updated)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		fixture.WaitNoErrorT10(t, f.consumer.ExpectLastMessageFn(
			bus.NewMessage(id.String(), map[string]string{"disk": "8192"}),
		))
	})
	t.Run(`update missing`, func(t *testing.T) {
		absent := testPluginConfig(t, dir, "absent", map[string]string{"disk": "1"})
		res := f.post(t, http.MethodPut, absent)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
	t.Run(`delete`, func(t *testing.T) {
		u := fmt.Sprintf("%s%s?%s=%s&%s=%s", f.server.URL, proto.V1Provider,
			proto.QueryType, id.Type, proto.QueryName, id.Name)
		req, err := http.NewRequest(http.MethodDelete, u, nil)
		require.NoError(t, err)
		res, err := f.server.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		fixture.WaitNoErrorT10(t, f.consumer.ExpectLastMessageFn(
			bus.NewMessage(id.String(), nil),
		))
	})
	t.Run(`delete missing`, func(t *testing.T) {
		u := fmt.Sprintf("%s%s?%s=%s&%s=%s", f.server.URL, proto.V1Provider,
			proto.QueryType, id.Type, proto.QueryName, id.Name)
		req, err := http.NewRequest(http.MethodDelete, u, nil)
		require.NoError(t, err)
		res, err := f.server.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
	t.Run(`delete without identity`, func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, f.server.URL+proto.V1Provider, nil)
		require.NoError(t, err)
		res, err := f.server.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestProviderAPI_CBOR(t *testing.T) {
	f := newAPIFixture(t)
	dir := t.TempDir()
	config := testPluginConfig(t, dir, "volume-1", map[string]string{"disk": "4096"})

	data, err := cbor.Marshal(config)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, f.server.URL+proto.V1Provider, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/cbor")

	res, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/cbor", res.Header.Get("Content-Type"))

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var ack proto.ProviderResponse
	assert.NoError(t, cbor.Unmarshal(raw, &ack))
	assert.Equal(t, proto.ProviderResponse{Type: config.Type, Name: config.Name}, ack)
}

func TestStatusPing(t *testing.T) {
	f := newAPIFixture(t)
	res, err := f.server.Client().Get(f.server.URL + proto.V1StatusPing)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(raw))
}
