package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"
	"github.com/docker/libkv"
	"github.com/docker/libkv/store"
	"github.com/docker/libkv/store/consul"
	"github.com/docker/libkv/store/etcd"
	"github.com/docker/libkv/store/zookeeper"
)

var disabledError = errors.New("public namespace is disabled")

const (
	opSet = iota
	opDelete
)

type operation struct {
	key   string
	value string
	op    int
}

type Options struct {
	Enabled       bool
	URL           string
	Timeout       time.Duration
	RetryInterval time.Duration
	TTL           time.Duration
}

// LibKVBackend pushes node state to the cluster KV store. Operations are
// queued and retried until the connection is established.
type LibKVBackend struct {
	*supervisor.Control
	log     *logx.Log
	options Options

	connDirtyCtx    context.Context
	connDirtyCancel context.CancelFunc
	conn            store.Store
	connErr         error
	chroot          string
	ttl             time.Duration

	operationChan chan []operation
}

func NewLibKVBackend(ctx context.Context, log *logx.Log, options Options) (b *LibKVBackend) {
	b = &LibKVBackend{
		Control:       supervisor.NewControl(ctx),
		log:           log.GetLog("public", "backend"),
		options:       options,
		operationChan: make(chan []operation, 500),
	}
	b.connDirtyCtx, b.connDirtyCancel = context.WithCancel(context.Background())
	return
}

func (b *LibKVBackend) Open() (err error) {
	go b.connect()
	go b.operationLoop()
	err = b.Control.Open()
	return
}

// Set stores data under prefix
func (b *LibKVBackend) Set(prefix string, data map[string]string) {
	if !b.options.Enabled {
		return
	}
	var ops []operation
	for key, value := range data {
		ops = append(ops, operation{
			key:   path.Join(prefix, key),
			value: value,
			op:    opSet,
		})
	}
	go func() {
		b.operationChan <- ops
	}()
}

// Delete removes keys under prefix
func (b *LibKVBackend) Delete(prefix string, keys ...string) {
	if !b.options.Enabled {
		return
	}
	var ops []operation
	for _, key := range keys {
		ops = append(ops, operation{
			key: path.Join(prefix, key),
			op:  opDelete,
		})
	}
	go func() {
		b.operationChan <- ops
	}()
}

func (b *LibKVBackend) connect() {
	defer b.connDirtyCancel()

	if !b.options.Enabled {
		b.log.Info("disabled")
		b.connErr = disabledError
		return
	}

	u, err := url.Parse(b.options.URL)
	if err != nil {
		b.log.Error(err)
		b.connErr = err
		return
	}
	kind := store.Backend(u.Scheme)
	addr := strings.Split(u.Host, ",")
	b.chroot = strings.TrimPrefix(u.Path, "/")
	b.ttl = b.options.TTL

	switch kind {
	case store.CONSUL:
		// libkv divides TTL by 2
		b.ttl = b.ttl * 2
		consul.Register()
	case store.ETCD:
		etcd.Register()
	case store.ZK:
		zookeeper.Register()
	default:
		b.connErr = fmt.Errorf("invalid backend type: %s", kind)
		b.log.Error(b.connErr)
		return
	}

	var retry int
	for {
		retry++
		b.log.Infof("connecting to %s (retry %d)", b.options.URL, retry)
		b.conn, b.connErr = libkv.NewStore(kind, addr, &store.Config{
			ConnectionTimeout: b.options.Timeout,
		})
		if b.connErr != nil {
			b.log.Errorf("failed to connect to %s: %v: sleeping %v", b.options.URL, b.connErr, b.options.RetryInterval)
			select {
			case <-b.Control.Ctx().Done():
				b.connErr = b.Control.Ctx().Err()
				return
			case <-time.After(b.options.RetryInterval):
			}
			continue
		}
		b.log.Infof("connected to %s", b.options.URL)
		return
	}
}

func (b *LibKVBackend) operationLoop() {
	log := b.log.GetLog(b.log.Prefix(), "operation")
	defer log.Info("close")

	if !b.options.Enabled {
		log.Info("disabled")
		return
	}

	pending := map[string]operation{}
	var opErr error
LOOP:
	for {
		select {
		case <-b.Control.Ctx().Done():
			break LOOP
		case ingest := <-b.operationChan:
			log.Debugf("operations received: %v", ingest)
			for _, op := range ingest {
				pending[op.key] = op
			}

			select {
			case <-b.connDirtyCtx.Done():
			default:
				log.Infof("connection is not established")
				continue LOOP
			}
			if b.connErr != nil {
				continue LOOP
			}

			for _, op := range pending {
				key := b.chroot + "/" + op.key
				switch op.op {
				case opSet:
					opErr = b.conn.Put(key, []byte(op.value), &store.WriteOptions{
						TTL: b.ttl,
					})
				case opDelete:
					opErr = b.conn.Delete(key)
					if opErr == store.ErrKeyNotFound {
						opErr = nil
					}
				}
				if opErr != nil {
					log.Error(opErr)
					continue
				}
				delete(pending, op.key)
			}
		}
	}
}
