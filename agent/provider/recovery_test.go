package provider_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/akaspin/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtters/mesos/agent/bus"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/fixture"
)

func TestRecovery_Open(t *testing.T) {
	log := logx.GetLog("test")
	ctx := context.Background()
	dir := t.TempDir()
	script := fixture.WritePluginScript(t, dir, "plugin.sh", map[string]string{"disk": "4096"})

	store := provider.NewStore(ctx, log, t.TempDir())
	instances := provider.NewInstanceManager(ctx, log, testInstanceOptions(t.TempDir()))
	consumer := bus.NewTestingConsumer()
	publisher := provider.NewBusPublisher(log, consumer)

	require.NoError(t, store.Open())
	require.NoError(t, instances.Open())
	defer store.Close()
	defer instances.Close()

	config := testConfig("volume-1", script)
	id := config.GetID()
	_, err := store.Put(config)
	require.NoError(t, err)

	// endpoint artifacts of an identity with no persisted config
	stale := filepath.Join(instances.EndpointRoot(), "org.apache.mesos.rp.local.storage", "gone")
	require.NoError(t, os.MkdirAll(stale, 0755))

	recovery := provider.NewRecovery(ctx, log, store, instances, publisher)
	require.NoError(t, recovery.Open())
	defer recovery.Close()

	t.Run(`persisted config restarted`, func(t *testing.T) {
		capacity, ok := instances.CurrentResources(id)
		assert.True(t, ok)
		assert.Equal(t, provider.Capacity{"disk": "4096"}, capacity)
		fixture.WaitNoErrorT10(t, consumer.ExpectMessagesFn(
			bus.NewMessage(id.String(), map[string]string{"disk": "4096"}),
		))
	})
	t.Run(`stale endpoint pruned`, func(t *testing.T) {
		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestRecovery_OpenFailures(t *testing.T) {
	log := logx.GetLog("test")
	ctx := context.Background()
	dir := t.TempDir()
	script := fixture.WritePluginScript(t, dir, "plugin.sh", map[string]string{"disk": "4096"})
	broken := fixture.WriteBrokenPluginScript(t, dir, "broken.sh")

	store := provider.NewStore(ctx, log, t.TempDir())
	instances := provider.NewInstanceManager(ctx, log, testInstanceOptions(t.TempDir()))
	consumer := bus.NewTestingConsumer()

	require.NoError(t, store.Open())
	require.NoError(t, instances.Open())
	defer store.Close()
	defer instances.Close()

	good := testConfig("volume-1", script)
	bad := testConfig("volume-2", broken)
	for _, config := range []*provider.Config{good, bad} {
		_, err := store.Put(config)
		require.NoError(t, err)
	}

	// a failing identity never blocks recovery of the rest
	recovery := provider.NewRecovery(ctx, log, store, instances, provider.NewBusPublisher(log, consumer))
	require.NoError(t, recovery.Open())
	defer recovery.Close()

	_, ok := instances.CurrentResources(good.GetID())
	assert.True(t, ok)
	_, ok = instances.CurrentResources(bad.GetID())
	assert.False(t, ok)

	// failed identity stays persisted for the operator to fix
	_, err := store.Get(bad.GetID())
	assert.NoError(t, err)
}
