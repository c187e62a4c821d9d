package backend

import (
	"github.com/akaspin/logx"

	"github.com/jwtters/mesos/agent/bus"
)

// CapacityAnnouncer mirrors provider capacity messages to the cluster KV:
// the allocator upstream watches the prefix to learn the node's current
// totals. An empty message drops the identity before a non-empty one
// reintroduces it, so stale capacity is never visible alongside fresh.
type CapacityAnnouncer struct {
	log     *logx.Log
	backend *LibKVBackend
	prefix  string
}

func NewCapacityAnnouncer(log *logx.Log, backend *LibKVBackend, prefix string) (a *CapacityAnnouncer) {
	a = &CapacityAnnouncer{
		log:     log.GetLog("public", "announcer", prefix),
		backend: backend,
		prefix:  prefix,
	}
	return
}

func (a *CapacityAnnouncer) ConsumeMessage(message bus.Message) {
	if message.IsEmpty() {
		a.log.Debugf("withdraw %s", message.GetID())
		a.backend.Delete(a.prefix, message.GetID())
		return
	}
	a.log.Debugf("announce %s", message.GetID())
	a.backend.Set(a.prefix, map[string]string{
		message.GetID(): string(message.GetPayloadJSON()),
	})
}
