package cmd

import (
	"github.com/urfave/cli"

	"github.com/go-drift/animator/pkg/log"
)

var logger = log.New("animator")

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	// Per-module levels such as "uithread=debug" win over -v/-vv.
	return log.ParseModuleLevels(ctx.GlobalStringSlice("log"))
}
