package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/pokerroom/internal/client/commands"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	commands.GlobalFlags `embed:""`

	Version kong.VersionFlag      `short:"v" help:"Show version"`
	Play    commands.PlayCommand  `cmd:"" help:"Take a seat in a room"`
	Watch   commands.WatchCommand `cmd:"" help:"Watch a room as an observer"`
	Seats   commands.SeatsCommand `cmd:"" help:"Print where each seat is drawn for a viewer"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerroom"),
		kong.Description("Terminal client for multiplayer poker rooms"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.GlobalFlags)
	ctx.FatalIfErrorf(err)
}
