package api

import (
	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/proto"
)

func NewStatusPingGet() (e *api_server.Endpoint) {
	return api_server.GET(proto.V1StatusPing, NewWrapper(func() (err error) {
		return
	}))
}
