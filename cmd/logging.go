package cmd

import (
	"github.com/JHay0112/raytracing/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("raytracing")

func setupLogging(ctx *cli.Context) {
	if level, ok := log.ParseLevel(ctx.GlobalString("log-level")); ok {
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
