package backend

import (
	"context"
	"testing"
	"time"

	"github.com/akaspin/logx"
	"github.com/stretchr/testify/require"
)

func TestLibKVBackend_CloseUnblocksConnect(t *testing.T) {
	// consul rejects multiple endpoints: the connect loop fails without any
	// network and sits in its retry sleep
	b := NewLibKVBackend(context.Background(), logx.GetLog("test"), Options{
		Enabled:       true,
		URL:           "consul://127.0.0.1:8500,127.0.0.2:8500/mesos",
		Timeout:       time.Millisecond * 100,
		RetryInterval: time.Hour,
	})
	require.NoError(t, b.Open())
	require.NoError(t, b.Close())

	select {
	case <-b.connDirtyCtx.Done():
	case <-time.After(time.Second * 10):
		t.Error("connect loop still running after close")
	}
}

func TestLibKVBackend_BadScheme(t *testing.T) {
	b := NewLibKVBackend(context.Background(), logx.GetLog("test"), Options{
		Enabled: true,
		URL:     "bolt://127.0.0.1:8500/mesos",
	})
	require.NoError(t, b.Open())
	defer b.Close()

	select {
	case <-b.connDirtyCtx.Done():
	case <-time.After(time.Second * 10):
		t.Error("connect still running")
	}
	require.Error(t, b.connErr)
}
