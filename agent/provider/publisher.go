package provider

import (
	"github.com/akaspin/logx"

	"github.com/jwtters/mesos/agent/bus"
)

// BusPublisher translates offer impacts into bus messages. For each impact
// an empty message is sent first to rescind offers built from the old
// capacity, then a message with the new capacity: consumers never observe
// two active capacity versions for one identity.
type BusPublisher struct {
	log       *logx.Log
	consumers []bus.Consumer
}

func NewBusPublisher(log *logx.Log, consumers ...bus.Consumer) (p *BusPublisher) {
	p = &BusPublisher{
		log:       log.GetLog("provider", "publisher"),
		consumers: consumers,
	}
	return
}

func (p *BusPublisher) PublishResourceUpdate(impact OfferImpact) {
	p.log.Debugf("impact: %v", impact)
	if impact.Old != nil {
		p.send(bus.NewMessage(impact.ID.String(), nil))
	}
	if impact.New != nil {
		p.send(bus.NewMessage(impact.ID.String(), map[string]string(impact.New)))
	}
}

func (p *BusPublisher) send(message bus.Message) {
	for _, consumer := range p.consumers {
		consumer.ConsumeMessage(message)
	}
}
