package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwtters/mesos/agent/provider"
)

func TestValidator_Validate(t *testing.T) {
	v := provider.NewValidator()

	t.Run(`ok`, func(t *testing.T) {
		assert.NoError(t, v.Validate(testConfig("volume-1", "/bin/true")))
	})
	t.Run(`missing name`, func(t *testing.T) {
		config := testConfig("", "/bin/true")
		assert.Error(t, v.Validate(config))
	})
	t.Run(`bad type prefix`, func(t *testing.T) {
		config := testConfig("volume-1", "/bin/true")
		config.Type = "com.example.storage"
		err := v.Validate(config)
		assert.Error(t, err)
		assert.IsType(t, &provider.ValidationError{}, err)
	})
	t.Run(`bad name`, func(t *testing.T) {
		config := testConfig("../escape", "/bin/true")
		assert.Error(t, v.Validate(config))
	})
	t.Run(`missing command value`, func(t *testing.T) {
		config := testConfig("volume-1", "")
		assert.Error(t, v.Validate(config))
	})
	t.Run(`bad reservation type`, func(t *testing.T) {
		config := testConfig("volume-1", "/bin/true")
		config.DefaultReservations = []provider.Reservation{
			{Type: "MAYBE", Role: "storage"},
		}
		assert.Error(t, v.Validate(config))
	})
	t.Run(`duplicate services`, func(t *testing.T) {
		config := testConfig("volume-1", "/bin/true")
		config.Plugin.Services = []string{"NODE_SERVICE", "NODE_SERVICE"}
		err := v.Validate(config)
		assert.Error(t, err)
		assert.IsType(t, &provider.ValidationError{}, err)
	})
	t.Run(`custom prefixes`, func(t *testing.T) {
		custom := provider.NewValidator("com.example.")
		config := testConfig("volume-1", "/bin/true")
		config.Type = "com.example.storage"
		assert.NoError(t, custom.Validate(config))
		assert.Error(t, custom.Validate(testConfig("volume-1", "/bin/true")))
	})
}
