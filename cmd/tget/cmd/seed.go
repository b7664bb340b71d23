package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/engine/anacrolix"
	"github.com/pojntfx/tget/pkg/session"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	errSeedMagnet = errors.New("could not seed from a magnet link, use a torrent file")
)

var seedCmd = &cobra.Command{
	Use:   "seed <file|->",
	Short: "Verify local data against a torrent file and seed it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		src, err := source.Resolve(args[0], os.Stdin)
		if err != nil {
			return err
		}

		if src.IsMagnet() {
			return errSeedMagnet
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		log.Debug().
			Str("source", src.String()).
			Str("path", viper.GetString(pathFlag)).
			Msg("Seeding")

		return withStatus(ctx, src, modeSeed, func(ctx context.Context, open func() error, observers ...observer) error {
			controller := session.NewController(
				anacrolix.NewEngine(),
				engine.Config{
					Storage: viper.GetString(pathFlag),
					Debug:   viper.GetInt(verboseFlag) > 6,
				},
				session.SelectAll(),
				"",
				newPresenter(),
				observers...,
			)
			controller.OnVerified(open)

			return controller.Seed(ctx, src)
		})
	},
}

func init() {
	seedCmd.PersistentFlags().StringP(pathFlag, "p", workingDirectory(), "Directory containing the data to seed")
	seedCmd.PersistentFlags().BoolP(quietFlag, "q", false, "Don't print the status block")
	addStatusFlags(seedCmd.PersistentFlags())

	viper.AutomaticEnv()

	rootCmd.AddCommand(seedCmd)
}
