package api

import (
	"context"
	"net/url"

	"github.com/akaspin/logx"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/proto"
)

func NewProviderGet(log *logx.Log, manager *provider.Manager) (e *api_server.Endpoint) {
	return api_server.GET(proto.V1Provider, &providerGetProcessor{
		log:     log.GetLog("api", "get", proto.V1Provider),
		manager: manager,
	})
}

type providerGetProcessor struct {
	log     *logx.Log
	manager *provider.Manager
}

func (p *providerGetProcessor) Empty() interface{} {
	return nil
}

func (p *providerGetProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	configs, err := p.manager.List()
	if err != nil {
		err = mapProviderError(err)
		return
	}
	if configs == nil {
		configs = []*provider.Config{}
	}
	res = configs
	return
}
