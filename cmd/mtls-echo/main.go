package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/mtlsecho/cmd/mtls-echo/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Echo    commands.EchoCmd `cmd:"" default:"withargs" help:"Accept one mutual TLS connection and echo a single buffer."`
		Debug   bool             `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("mtls-echo"),
		kong.Description("Accept one mutual TLS connection, check the client common name and echo a single buffer."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
