package api

import (
	"context"
	"net/url"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/proto"
)

func NewStatusNodeGet(node proto.NodeResponse) (e *api_server.Endpoint) {
	return api_server.GET(proto.V1StatusNode, &statusNodeGetProcessor{
		node: node,
	})
}

type statusNodeGetProcessor struct {
	node proto.NodeResponse
}

func (p *statusNodeGetProcessor) Empty() interface{} {
	return nil
}

func (p *statusNodeGetProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	res = p.node
	return
}
