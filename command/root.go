package command

import (
	"io"

	"github.com/akaspin/cut"
	"github.com/spf13/cobra"
)

var V string

type Mesos struct {
	*cut.Environment
}

func (c *Mesos) Bind(cc *cobra.Command) {
	cc.Use = "mesos-agent"
}

func Run(stderr, stdout io.Writer, stdin io.Reader, args ...string) (err error) {
	env := &cut.Environment{
		Stderr: stderr,
		Stdin:  stdin,
		Stdout: stdout,
	}

	options := &AgentOptions{}

	cmd := cut.Attach(
		&Mesos{env}, []cut.Binder{env},
		cut.Attach(
			&Agent{env, options}, []cut.Binder{options},
		),
		cut.Attach(
			&Version{env}, []cut.Binder{},
		),
	)
	cmd.SetArgs(args)
	cmd.SetOutput(stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err = cmd.Execute()
	return
}
