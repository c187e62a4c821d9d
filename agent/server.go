package agent

import (
	"context"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"

	"github.com/jwtters/mesos/agent/api"
	api_server "github.com/jwtters/mesos/agent/api/api-server"
	"github.com/jwtters/mesos/agent/bus/backend"
	"github.com/jwtters/mesos/agent/provider"
	"github.com/jwtters/mesos/proto"
)

type ServerOptions struct {
	AgentId    string
	ConfigPath []string
	Address    string
	Version    string

	Public backend.Options
}

// Agent instance
type Server struct {
	log     *logx.Log
	options ServerOptions
	sv      supervisor.Component
}

func NewServer(ctx context.Context, log *logx.Log, options ServerOptions) (s *Server) {
	s = &Server{
		log:     log.GetLog("server"),
		options: options,
	}

	config := DefaultConfig()
	config.Agent.Id = options.AgentId
	if readErr := config.Read(options.ConfigPath...); readErr != nil {
		s.log.Warningf("error reading configs: %v", readErr)
	}

	publicBackend := backend.NewLibKVBackend(ctx, log, options.Public)
	publisher := provider.NewBusPublisher(log,
		backend.NewCapacityAnnouncer(log, publicBackend, "provider"),
	)

	store := provider.NewStore(ctx, log, config.Provider.ConfigDir)
	instances := provider.NewInstanceManager(ctx, log, config.InstanceOptions())
	manager := provider.NewManager(ctx, log, store, instances, publisher)
	recovery := provider.NewRecovery(ctx, log, store, instances, publisher)
	validator := provider.NewValidator(config.Provider.TypePrefixes...)

	apiRouter := api_server.NewRouter(log,
		// status
		api.NewStatusPingGet(),
		api.NewStatusNodeGet(proto.NodeResponse{
			Id:      options.AgentId,
			Version: options.Version,
			API:     "v1",
		}),

		// resource providers
		api.NewProviderGet(log, manager),
		api.NewProviderAdd(log, validator, manager),
		api.NewProviderUpdate(log, validator, manager),
		api.NewProviderDelete(log, manager),
	)

	s.sv = supervisor.NewChain(ctx,
		publicBackend,
		store,
		instances,
		manager,
		recovery,
		api_server.NewServer(ctx, log, options.Address, apiRouter),
	)
	return
}

func (s *Server) Open() (err error) {
	s.log.Infof("open: %v", s.options)
	err = s.sv.Open()
	return
}

func (s *Server) Close() error {
	return s.sv.Close()
}

func (s *Server) Wait() (err error) {
	return s.sv.Wait()
}
