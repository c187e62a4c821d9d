package main

import (
	"os"

	"github.com/akaspin/logx"
	"github.com/jwtters/mesos/command"
)

func main() {
	err := command.Run(os.Stderr, os.Stdout, os.Stdin, os.Args[1:]...)
	if err != nil {
		logx.GetLog("main").Critical(err)
	}
}
