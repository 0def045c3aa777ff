package commands

import (
	"context"

	"github.com/wolfeidau/mtlsecho/internal/echo"
	"github.com/wolfeidau/mtlsecho/internal/logger"
)

// EchoCmd carries the four flags of a single echo session. None are enforced
// here; missing material fails when the TLS configuration is loaded.
type EchoCmd struct {
	Cert string `help:"TLS server cert." placeholder:"CERT_FILE"`
	Key  string `help:"TLS server cert private key." placeholder:"PRIVATE_KEY_FILE"`
	CA   string `name:"ca" help:"TLS server CA list for client-auth." placeholder:"CA_FILE"`
	CN   string `name:"cn" help:"Expected common name." placeholder:"COMMON_NAME"`
}

// Config maps the flags onto the server configuration.
func (c *EchoCmd) Config() echo.Config {
	return echo.Config{
		CertPath:           c.Cert,
		KeyPath:            c.Key,
		CAPath:             c.CA,
		ExpectedCommonName: c.CN,
	}
}

// Run serves a single echo session and returns once it has finished.
func (c *EchoCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().
		Str("version", globals.Version).
		Str("cert", c.Cert).
		Str("key", c.Key).
		Str("ca", c.CA).
		Str("cn", c.CN).
		Msg("Starting mtls echo server")

	return echo.Run(ctx, c.Config(), echo.WithLogger(log))
}
