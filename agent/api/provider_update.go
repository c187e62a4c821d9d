package api

import (
	"context"
	"net/url"

	"github.com/akaspin/logx"

	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/proto"
)

func NewProviderUpdate(log *logx.Log, validator *provider.Validator, manager *provider.Manager) (e *api_server.Endpoint) {
	return api_server.PUT(proto.V1Provider, &providerUpdateProcessor{
		log:       log.GetLog("api", "put", proto.V1Provider),
		validator: validator,
		manager:   manager,
	})
}

type providerUpdateProcessor struct {
	log       *logx.Log
	validator *provider.Validator
	manager   *provider.Manager
}

func (p *providerUpdateProcessor) Empty() interface{} {
	return &provider.Config{}
}

func (p *providerUpdateProcessor) Process(ctx context.Context, u *url.URL, v interface{}) (res interface{}, err error) {
	config, ok := v.(*provider.Config)
	if !ok {
		err = api_server.ErrorBadRequestData
		return
	}
	if err = p.validator.Validate(config); err != nil {
		err = mapProviderError(err)
		return
	}
	if err = p.manager.Update(config); err != nil {
		err = mapProviderError(err)
		return
	}
	res = proto.ProviderResponse{
		Type: config.Type,
		Name: config.Name,
	}
	return
}
