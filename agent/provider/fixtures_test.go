package provider_test

import (
	"github.com/jwtters/mesos/agent/provider"
)

func testConfig(name, command string) (config *provider.Config) {
	config = &provider.Config{
		Type: "org.apache.mesos.rp.local.storage",
		Name: name,
		DefaultReservations: []provider.Reservation{
			{Type: "DYNAMIC", Role: "storage"},
		},
		Plugin: provider.PluginSpec{
			Services: []string{"CONTROLLER_SERVICE", "NODE_SERVICE"},
			Command: provider.CommandSpec{
				Value: command,
			},
		},
	}
	return
}
