package cmd

import (
	"bytes"
	"os"

	"github.com/pojntfx/tget/pkg/descriptor"
	"github.com/pojntfx/tget/pkg/presenter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	sizeFlag  = "size"
	humanFlag = "human"
)

var lsCmd = &cobra.Command{
	Use:     "ls [file|-]",
	Aliases: []string{"list"},
	Short:   "List the files in a torrent file",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		body, err := readDescriptor(args)
		if err != nil {
			return err
		}

		files, err := descriptor.List(bytes.NewReader(body))
		if err != nil {
			return err
		}

		presenter.Listing(os.Stdout, files, viper.GetBool(sizeFlag), viper.GetBool(humanFlag))

		return nil
	},
}

func init() {
	lsCmd.PersistentFlags().BoolP(sizeFlag, "s", false, "Prefix each path with its size in bytes")
	lsCmd.PersistentFlags().BoolP(humanFlag, "H", false, "Print sizes in human-readable units (with --size)")

	viper.AutomaticEnv()

	rootCmd.AddCommand(lsCmd)
}
