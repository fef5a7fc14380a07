package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/cmd"
	"github.com/photon-storage/stime/cmd/runtime/version"
	"github.com/photon-storage/stime/config"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Error("running application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "stime",
		Usage:   "inspects time slice identifiers, ranges, scores and derived addresses",
		Version: version.Get(),
		Flags:   append([]cli.Flag{cmd.PolicyPathFlag}, cmd.LogFlags...),
		Before:  cmd.InitLog,
		Commands: []*cli.Command{
			idCommand,
			validateCommand,
			scoreCommand,
			valueCommand,
			deriveCommand,
		},
	}
}

// loadPolicy reads the policy file when one is given.
func loadPolicy(ctx *cli.Context) (config.Policy, error) {
	path := ctx.String(cmd.PolicyPathFlag.Name)
	if path == "" {
		return config.DefaultPolicy(), nil
	}

	// Bounds are checked after defaults fill the omitted fields.
	file := struct {
		config.Policy `yaml:",inline" validate:"-"`
	}{}
	if err := config.Load(path, &file); err != nil {
		return config.Policy{}, err
	}

	p := file.Policy.WithDefaults()
	return p, p.Validate()
}
