package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akaspin/cut"
	"github.com/akaspin/logx"
	"github.com/spf13/cobra"

	"github.com/jwtters/mesos/agent"
	"github.com/jwtters/mesos/agent/bus/backend"
)

type AgentOptions struct {
	Id string // Unique Agent ID

	ConfigPath []string // Paths to configuration files
	Address    string   // bind address

	Public backend.Options
}

func (o *AgentOptions) Bind(cc *cobra.Command) {
	cc.Flags().StringVarP(&o.Id, "id", "", "localhost", "unique agent id")
	cc.Flags().StringArrayVarP(&o.ConfigPath, "config", "", []string{"/etc/mesos/agent.hcl"}, "configuration file")
	cc.Flags().StringVarP(&o.Address, "address", "", ":5051", "listen address")

	cc.Flags().BoolVarP(&o.Public.Enabled, "public", "", false, "enable capacity announcements to public backend")
	cc.Flags().StringVarP(&o.Public.URL, "url", "", "consul://127.0.0.1:8500/mesos", "url for public backend")
	cc.Flags().DurationVarP(&o.Public.TTL, "ttl", "", time.Minute*3, "TTL for dynamic entries in public backend")
	cc.Flags().DurationVarP(&o.Public.Timeout, "timeout", "", time.Minute, "connect timeout for public backend")
	cc.Flags().DurationVarP(&o.Public.RetryInterval, "interval", "", time.Second*30, "public backend connect retry interval")
}

type Agent struct {
	*cut.Environment
	*AgentOptions
}

func (c *Agent) Bind(cc *cobra.Command) {
	cc.Use = "agent"
	cc.Short = "Run cluster node agent"
}

func (c *Agent) Run(args ...string) (err error) {
	ctx := context.Background()
	log := logx.GetLog("root")

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	server := agent.NewServer(ctx, log, agent.ServerOptions{
		AgentId:    c.Id,
		ConfigPath: c.ConfigPath,
		Address:    c.Address,
		Version:    V,
		Public:     c.Public,
	})
	if err = server.Open(); err != nil {
		return
	}

LOOP:
	for {
		select {
		case sig := <-signalChan:
			log.Infof("stop received: %v", sig)
			go server.Close()
			break LOOP
		case <-ctx.Done():
			break LOOP
		}
	}

	err = server.Wait()
	log.Info("Bye")
	return
}
