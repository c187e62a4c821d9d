package agent

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"

	"github.com/jwtters/mesos/agent/provider"
)

// Agent - specific config
type Config struct {
	Agent struct {
		Id string
	}
	Provider ProviderOptions `hcl:"provider" json:"provider"`
}

// ProviderOptions configures the resource provider subsystem
type ProviderOptions struct {
	ConfigDir       string   `hcl:"config_dir" json:"config_dir"`
	WorkDir         string   `hcl:"work_dir" json:"work_dir"`
	LaunchTimeout   string   `hcl:"launch_timeout" json:"launch_timeout"`
	StopGracePeriod string   `hcl:"stop_grace_period" json:"stop_grace_period"`
	TypePrefixes    []string `hcl:"type_prefixes" json:"type_prefixes"`
}

func DefaultConfig() (c *Config) {
	c = &Config{}
	c.Provider = ProviderOptions{
		ConfigDir:       "/var/lib/mesos/resource_provider_configs",
		WorkDir:         "/var/lib/mesos/work",
		LaunchTimeout:   "30s",
		StopGracePeriod: "5s",
	}
	return
}

// InstanceOptions resolves declared durations with fallback to defaults
func (c *Config) InstanceOptions() (res provider.InstanceOptions) {
	res = provider.DefaultInstanceOptions(c.Provider.WorkDir)
	if v, err := time.ParseDuration(c.Provider.LaunchTimeout); err == nil && v > 0 {
		res.LaunchTimeout = v
	}
	if v, err := time.ParseDuration(c.Provider.StopGracePeriod); err == nil && v > 0 {
		res.StopGracePeriod = v
	}
	return
}

func (c *Config) Unmarshal(readers ...io.Reader) (err error) {
	for _, reader := range readers {
		if failure := c.unmarshal(reader); failure != nil {
			err = multierror.Append(err, failure)
		}
	}
	return
}

func (c *Config) unmarshal(r io.Reader) (err error) {
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, r); err != nil {
		return
	}
	root, err := hcl.Parse(buf.String())
	if err != nil {
		return
	}
	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		err = fmt.Errorf("error parsing: root should be an object")
		return
	}
	err = hcl.DecodeObject(c, list)
	return
}

func (c *Config) Read(paths ...string) (err error) {
	for _, p := range paths {
		readErr := func(configPath string) (err error) {
			f, err := os.Open(configPath)
			if err != nil {
				return
			}
			defer f.Close()
			err = c.unmarshal(f)
			return
		}(p)
		if readErr != nil {
			err = multierror.Append(err, readErr)
		}
	}
	return
}
