package provider

import (
	"context"
	"os"
	"path/filepath"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"
	"github.com/hashicorp/go-multierror"
)

// Recovery reconciles persisted configs against endpoint artifacts left by
// a prior run. It runs once, before steady-state traffic: stale endpoint
// directories are pruned and every persisted identity without a live
// instance is (re)started. Per-identity failures are logged and skipped.
type Recovery struct {
	*supervisor.Control
	log       *logx.Log
	store     *Store
	instances *InstanceManager
	publisher Publisher
}

func NewRecovery(ctx context.Context, log *logx.Log, store *Store, instances *InstanceManager, publisher Publisher) (r *Recovery) {
	r = &Recovery{
		Control:   supervisor.NewControl(ctx),
		log:       log.GetLog("provider", "recovery"),
		store:     store,
		instances: instances,
		publisher: publisher,
	}
	return
}

func (r *Recovery) Open() (err error) {
	configs, listErr := r.store.ListAll()
	if listErr != nil {
		r.log.Errorf("scan: %v", listErr)
	}
	persisted := map[ID]*Config{}
	for _, config := range configs {
		persisted[config.GetID()] = config
	}
	r.prune(persisted)

	var failures error
	for id, config := range persisted {
		if _, ok := r.instances.CurrentResources(id); ok {
			continue
		}
		capacity, startErr := r.instances.Start(config)
		if startErr != nil {
			failures = multierror.Append(failures, startErr)
			continue
		}
		r.publisher.PublishResourceUpdate(OfferImpact{ID: id, New: capacity})
		r.log.Infof("recovered %s", id)
	}
	if failures != nil {
		r.log.Errorf("recovered with failures: %v", failures)
	}
	err = r.Control.Open()
	r.log.Infof("open: %d configs", len(persisted))
	return
}

// prune removes endpoint directories whose identity has no persisted config
func (r *Recovery) prune(persisted map[ID]*Config) {
	root := r.instances.EndpointRoot()
	types, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, kind := range types {
		if !kind.IsDir() {
			continue
		}
		names, readErr := os.ReadDir(filepath.Join(root, kind.Name()))
		if readErr != nil {
			continue
		}
		for _, name := range names {
			id := ID{Type: kind.Name(), Name: name.Name()}
			if _, ok := persisted[id]; ok {
				continue
			}
			stale := filepath.Join(root, kind.Name(), name.Name())
			if removeErr := os.RemoveAll(stale); removeErr != nil {
				r.log.Warningf("can't prune %s: %v", stale, removeErr)
				continue
			}
			r.log.Infof("pruned stale endpoint %s", stale)
		}
	}
}
