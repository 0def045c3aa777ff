package commands

import (
	"context"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mtlsecho/internal/echo"
)

type testCLI struct {
	Echo  EchoCmd `cmd:"" default:"withargs"`
	Debug bool
}

func newParser(t *testing.T, cli *testCLI) *kong.Kong {
	t.Helper()

	parser, err := kong.New(cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.BindTo(context.Background(), (*context.Context)(nil)))
	require.NoError(t, err)

	return parser
}

func TestEchoCmd_Flags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "default command", args: []string{"--cert", "srv.pem", "--key", "srv.key", "--ca", "ca.pem", "--cn", "client1"}},
		{name: "named command", args: []string{"echo", "--cert", "srv.pem", "--key", "srv.key", "--ca", "ca.pem", "--cn", "client1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli testCLI
			kctx, err := newParser(t, &cli).Parse(tt.args)
			require.NoError(t, err)
			require.Equal(t, "echo", kctx.Command())

			assert.Equal(t, echo.Config{
				CertPath:           "srv.pem",
				KeyPath:            "srv.key",
				CAPath:             "ca.pem",
				ExpectedCommonName: "client1",
			}, cli.Echo.Config())
		})
	}
}

func TestEchoCmd_FlagsOptional(t *testing.T) {
	var cli testCLI

	_, err := newParser(t, &cli).Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, echo.Config{}, cli.Echo.Config())
}

func TestEchoCmd_Run(t *testing.T) {
	cmd := &EchoCmd{Cert: "missing.pem", Key: "missing.key", CA: "missing-ca.pem", CN: "client1"}

	err := cmd.Run(context.Background(), &Globals{})
	require.ErrorIs(t, err, echo.ErrConfiguration)
}

func TestEchoCmd_Dispatch(t *testing.T) {
	var cli testCLI

	kctx, err := newParser(t, &cli).Parse([]string{"--cert", "missing.pem", "--key", "missing.key", "--ca", "missing-ca.pem"})
	require.NoError(t, err)

	err = kctx.Run(&Globals{Debug: cli.Debug, Version: "test"})
	require.ErrorIs(t, err, echo.ErrConfiguration)
}
