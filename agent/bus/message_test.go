package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwtters/mesos/agent/bus"
)

func TestMessage(t *testing.T) {
	t.Run(`payload cloned`, func(t *testing.T) {
		payload := map[string]string{"1": "1"}
		message := bus.NewMessage("test", payload)
		payload["1"] = "2"
		assert.Equal(t, map[string]string{"1": "1"}, message.GetPayloadMap())
	})
	t.Run(`empty`, func(t *testing.T) {
		message := bus.NewMessage("test", nil)
		assert.True(t, message.IsEmpty())
		assert.Equal(t, map[string]string{}, message.GetPayloadMap())
	})
	t.Run(`equality`, func(t *testing.T) {
		left := bus.NewMessage("test", map[string]string{"1": "1"})
		assert.True(t, left.IsEqual(bus.NewMessage("test", map[string]string{"1": "1"})))
		assert.False(t, left.IsEqual(bus.NewMessage("test", map[string]string{"1": "2"})))
		assert.False(t, left.IsEqual(bus.NewMessage("other", map[string]string{"1": "1"})))
		assert.False(t, left.IsEqual(bus.NewMessage("test", nil)))
	})
}
