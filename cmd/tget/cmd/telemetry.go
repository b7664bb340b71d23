package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/pojntfx/tget/pkg/server"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const (
	statusLaddrFlag  = "status-laddr"
	apiUsernameFlag  = "api-username"
	apiPasswordFlag  = "api-password"
	oidcIssuerFlag   = "oidc-issuer"
	oidcClientIDFlag = "oidc-client-id"

	modeDownload = "download"
	modeSeed     = "seed"
)

var (
	errMissingAPIPassword = errors.New("missing API password")
	errMissingAPIUsername = errors.New("missing API username")
)

type observer = func(metrics.Sample)

func addStatusFlags(f *pflag.FlagSet) {
	f.String(statusLaddrFlag, "", "Listening address for the status server (i.e. localhost:1337); disabled if empty")
	f.String(apiUsernameFlag, "admin", "Username for the status server (can also be set using the API_USERNAME env variable). Ignored if any of the OIDC parameters are set.")
	f.String(apiPasswordFlag, "", "Password for the status server (can also be set using the API_PASSWORD env variable). Ignored if any of the OIDC parameters are set.")
	f.String(oidcIssuerFlag, "", "OIDC Issuer (i.e. https://pojntfx.eu.auth0.com/) (can also be set using the OIDC_ISSUER env variable)")
	f.String(oidcClientIDFlag, "", "OIDC Client ID (i.e. myoidcclientid) (can also be set using the OIDC_CLIENT_ID env variable)")
}

// withStatus runs fn next to a status server if one is configured. The
// server only listens once fn calls open; open is a no-op without a server.
func withStatus(ctx context.Context, src source.Source, mode string, fn func(ctx context.Context, open func() error, observers ...observer) error) error {
	laddr := viper.GetString(statusLaddrFlag)
	if strings.TrimSpace(laddr) == "" {
		return fn(ctx, func() error { return nil })
	}

	if strings.TrimSpace(viper.GetString(oidcIssuerFlag)) == "" && strings.TrimSpace(viper.GetString(oidcClientIDFlag)) == "" {
		if strings.TrimSpace(viper.GetString(apiUsernameFlag)) == "" {
			return errMissingAPIUsername
		}

		if strings.TrimSpace(viper.GetString(apiPasswordFlag)) == "" {
			return errMissingAPIPassword
		}
	}

	status := server.NewStatus(
		laddr,
		viper.GetString(apiUsernameFlag),
		viper.GetString(apiPasswordFlag),
		viper.GetString(oidcIssuerFlag),
		viper.GetString(oidcClientIDFlag),
		src.String(),
		mode,
		ctx,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opened := false
		defer func() {
			if !opened {
				return
			}

			if err := status.Close(); err != nil {
				log.Debug().
					Err(err).
					Msg("Could not close status server")
			}
		}()

		open := func() error {
			if opened {
				return nil
			}

			if err := status.Open(); err != nil {
				return err
			}
			opened = true

			log.Info().
				Str("address", status.Addr()).
				Msg("Serving status")

			g.Go(status.Wait)

			return nil
		}

		return fn(gctx, open, status.Publish)
	})

	return g.Wait()
}
