package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/engine/anacrolix"
	"github.com/pojntfx/tget/pkg/presenter"
	"github.com/pojntfx/tget/pkg/session"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	version = "0.1.0"

	verboseFlag = "verbose"
	pathFlag    = "path"
	peerFlag    = "peer"
	portFlag    = "port"
	selectFlag  = "select"
	quietFlag   = "quiet"
)

var (
	errInvalidPort = errors.New("could not use port outside of 0-65535")
)

var rootCmd = &cobra.Command{
	Use:   "tget [source]",
	Short: "Download and seed torrents from the command line",
	Long: `Download a torrent from a magnet link, a .torrent file or stdin (-) and watch its progress.

Find more information at:
https://github.com/pojntfx/tget`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix("")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		switch viper.GetInt(verboseFlag) {
		case 0:
			zerolog.SetGlobalLevel(zerolog.Disabled)
		case 1:
			zerolog.SetGlobalLevel(zerolog.PanicLevel)
		case 2:
			zerolog.SetGlobalLevel(zerolog.FatalLevel)
		case 3:
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		case 4:
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		case 5:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		case 6:
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		default:
			zerolog.SetGlobalLevel(zerolog.TraceLevel)
		}

		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		port := viper.GetInt(portFlag)
		if port < 0 || port > 65535 {
			return errInvalidPort
		}

		src, err := source.Resolve(args[0], os.Stdin)
		if err != nil {
			return err
		}

		selection := session.SelectAll()
		if name := viper.GetString(selectFlag); name != "" {
			selection = session.SelectByName(name)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		log.Debug().
			Str("source", src.String()).
			Str("path", viper.GetString(pathFlag)).
			Msg("Downloading")

		return withStatus(ctx, src, modeDownload, func(ctx context.Context, open func() error, observers ...observer) error {
			if err := open(); err != nil {
				return err
			}

			controller := session.NewController(
				anacrolix.NewEngine(),
				engine.Config{
					Storage:    viper.GetString(pathFlag),
					ListenPort: port,
					Debug:      viper.GetInt(verboseFlag) > 6,
				},
				selection,
				viper.GetString(peerFlag),
				newPresenter(),
				observers...,
			)

			return controller.Download(ctx, src)
		})
	},
}

func newPresenter() *presenter.Presenter {
	return presenter.NewPresenter(os.Stdout, presenter.NewOutput(os.Stdout, viper.GetBool(quietFlag)))
}

func workingDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	return wd
}

func Execute() error {
	rootCmd.PersistentFlags().IntP(verboseFlag, "v", 4, "Verbosity level (0 is disabled, default is warn, 7 is trace)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	viper.AutomaticEnv()

	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().StringP(pathFlag, "p", workingDirectory(), "Directory to store downloaded data in")
	rootCmd.Flags().String(peerFlag, "", "Address of a peer to connect to directly (i.e. 192.0.2.1:6881)")
	rootCmd.Flags().Int(portFlag, 0, "Port to listen for peers on (0 picks a free port)")
	rootCmd.Flags().StringP(selectFlag, "s", "", "Only download the file with this exact name")
	rootCmd.Flags().BoolP(quietFlag, "q", false, "Don't print the status block")
	addStatusFlags(rootCmd.Flags())
}
