package bus

import (
	"encoding/json"

	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/hashstructure"
)

// Message carries one unit of state from a producer to consumers. Payload
// is cloned on creation; an empty payload means the entity behind the id is
// gone.
type Message struct {
	id      string
	payload interface{}
	mark    uint64
}

// NewMessage returns message with cloned payload. Use <nil> payload to
// create empty message.
func NewMessage(id string, payload interface{}) (m Message) {
	m = Message{
		id: id,
	}
	if payload != nil {
		m.payload, _ = copystructure.Copy(payload)
	}
	m.mark, _ = hashstructure.Hash(m.payload, nil)
	return
}

func (m Message) GetID() string {
	return m.id
}

// GetPayloadMap returns payload as map[string]string. Empty map is
// returned if payload is <nil> or of different type.
func (m Message) GetPayloadMap() (res map[string]string) {
	res, ok := m.payload.(map[string]string)
	if m.payload == nil || !ok {
		res = map[string]string{}
	}
	return
}

func (m Message) GetPayloadJSON() (res []byte) {
	res, _ = json.Marshal(m.payload)
	return
}

func (m Message) IsEmpty() (res bool) {
	res = m.payload == nil
	return
}

func (m Message) IsEqual(ingest Message) (res bool) {
	res = m.id == ingest.id && m.mark == ingest.mark
	return
}

func (m Message) String() (res string) {
	res = m.id + ":" + string(m.GetPayloadJSON())
	return
}
