package api

import (
	"context"
	"net/url"

	"github.com/akaspin/logx"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/proto"
)

func NewProviderDelete(log *logx.Log, manager *provider.Manager) (e *api_server.Endpoint) {
	return api_server.DELETE(proto.V1Provider, &providerDeleteProcessor{
		log:     log.GetLog("api", "delete", proto.V1Provider),
		manager: manager,
	})
}

type providerDeleteProcessor struct {
	log     *logx.Log
	manager *provider.Manager
}

func (p *providerDeleteProcessor) Empty() interface{} {
	return nil
}

func (p *providerDeleteProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	id := provider.ID{
		Type: u.Query().Get(proto.QueryType),
		Name: u.Query().Get(proto.QueryName),
	}
	if id.Type == "" || id.Name == "" {
		err = api_server.ErrorBadRequestData
		return
	}
	if err = p.manager.Remove(id); err != nil {
		err = mapProviderError(err)
		return
	}
	res = proto.ProviderResponse{
		Type: id.Type,
		Name: id.Name,
	}
	return
}
