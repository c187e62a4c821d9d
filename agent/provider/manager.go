package provider

import (
	"context"
	"sync"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"
)

// Manager drives Add/Update/Remove as atomic operations spanning the store
// and the instance manager. Operations on one identity are applied one at a
// time in arrival order; different identities proceed in parallel.
type Manager struct {
	*supervisor.Control
	log       *logx.Log
	store     *Store
	instances *InstanceManager
	publisher Publisher

	mu    sync.Mutex
	locks map[ID]*sync.Mutex
}

func NewManager(ctx context.Context, log *logx.Log, store *Store, instances *InstanceManager, publisher Publisher) (m *Manager) {
	m = &Manager{
		Control:   supervisor.NewControl(ctx),
		log:       log.GetLog("provider", "manager"),
		store:     store,
		instances: instances,
		publisher: publisher,
		locks:     map[ID]*sync.Mutex{},
	}
	return
}

// Add persists config and starts its instance. Fails with ErrConflict if
// the identity is already occupied, leaving disk and instances untouched.
// A launch failure rolls the persisted record back.
func (m *Manager) Add(config *Config) (err error) {
	id := config.GetID()
	defer m.lock(id)()

	if _, getErr := m.store.Get(id); getErr == nil {
		err = ErrConflict
		m.log.Warningf("add %s: %v", id, err)
		return
	}
	if _, err = m.store.Put(config); err != nil {
		return
	}
	capacity, launchErr := m.instances.Start(config)
	if launchErr != nil {
		if removeErr := m.store.Remove(id); removeErr != nil {
			m.log.Errorf("rollback %s: %v", id, removeErr)
		}
		err = launchErr
		return
	}
	m.log.Infof("added %s", id)
	m.publisher.PublishResourceUpdate(OfferImpact{ID: id, New: capacity})
	return
}

// Update replaces the persisted record in place and swaps the instance.
// The old instance is fully stopped before the new one starts so capacity
// is never advertised twice. If the new instance fails to launch the
// previous config is restarted; if that fails too the identity degrades:
// new config persisted, nothing running.
func (m *Manager) Update(config *Config) (err error) {
	id := config.GetID()
	defer m.lock(id)()

	previous, getErr := m.store.Get(id)
	if getErr != nil {
		err = getErr
		m.log.Warningf("update %s: %v", id, err)
		return
	}
	oldCapacity, _ := m.instances.CurrentResources(id)
	if _, err = m.store.Put(config); err != nil {
		return
	}
	if stopErr := m.instances.Stop(id); stopErr != nil {
		err = &StopError{ID: id, Err: stopErr}
		return
	}
	capacity, launchErr := m.instances.Start(config)
	if launchErr == nil {
		m.log.Infof("updated %s", id)
		m.publisher.PublishResourceUpdate(OfferImpact{ID: id, Old: oldCapacity, New: capacity})
		return
	}
	m.log.Errorf("update %s: %v: restoring previous config", id, launchErr)
	if _, restoreErr := m.instances.Start(previous); restoreErr != nil {
		err = &DegradedError{ID: id, LaunchErr: launchErr, RestoreErr: restoreErr}
		m.log.Error(err)
		m.publisher.PublishResourceUpdate(OfferImpact{ID: id, Old: oldCapacity})
		return
	}
	// previous instance is back: capacity unchanged, no impact to publish
	err = launchErr
	return
}

// Remove stops the instance, then deletes the record. Stop comes first: a
// crash between the two steps leaves a persisted config with no instance,
// which recovery repairs by restarting it.
func (m *Manager) Remove(id ID) (err error) {
	defer m.lock(id)()

	if _, err = m.store.Get(id); err != nil {
		m.log.Warningf("remove %s: %v", id, err)
		return
	}
	oldCapacity, _ := m.instances.CurrentResources(id)
	if stopErr := m.instances.Stop(id); stopErr != nil {
		err = &StopError{ID: id, Err: stopErr}
		return
	}
	if err = m.store.Remove(id); err != nil {
		return
	}
	m.log.Infof("removed %s", id)
	m.publisher.PublishResourceUpdate(OfferImpact{ID: id, Old: oldCapacity})
	return
}

// List returns all persisted configs
func (m *Manager) List() (res []*Config, err error) {
	res, err = m.store.ListAll()
	return
}

// lock serializes per identity and returns the unlock func
func (m *Manager) lock(id ID) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()
	l.Lock()
	unlock = l.Unlock
	return
}
