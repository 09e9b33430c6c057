package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/opencustody/vault/cmd"
)

func main() {
	// Shell completion runs before flag parsing and exits on its own when
	// invoked by the shell.
	completion().Complete("vaultctl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"journal-file":     predict.Files("*.jsonl"),
			"unit":             predict.Nothing,
			"unit-decimals":    predict.Nothing,
			"capacity":         predict.Nothing,
			"withdrawal-limit": predict.Nothing,
		},
	}
}
