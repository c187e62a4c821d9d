package api

import (
	"context"
	"net/url"

	"github.com/akaspin/logx"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/proto"
)

func NewProviderAdd(log *logx.Log, validator *provider.Validator, manager *provider.Manager) (e *api_server.Endpoint) {
	return api_server.POST(proto.V1Provider, &providerAddProcessor{
		log:       log.GetLog("api", "post", proto.V1Provider),
		validator: validator,
		manager:   manager,
	})
}

type providerAddProcessor struct {
	log       *logx.Log
	validator *provider.Validator
	manager   *provider.Manager
}

func (p *providerAddProcessor) Empty() interface{} {
	return &provider.Config{}
}

func (p *providerAddProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	config, ok := v.(*provider.Config)
	if !ok {
		err = api_server.ErrorBadRequestData
		return
	}
	if err = p.validator.Validate(config); err != nil {
		err = mapProviderError(err)
		return
	}
	if err = p.manager.Add(config); err != nil {
		err = mapProviderError(err)
		return
	}
	res = proto.ProviderResponse{
		Type: config.Type,
		Name: config.Name,
	}
	return
}
