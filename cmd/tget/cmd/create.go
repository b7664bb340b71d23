package cmd

import (
	"os"
	"time"

	"github.com/pojntfx/tget/pkg/descriptor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	trackerFlag = "tracker"
	urlListFlag = "url-list"
	outfileFlag = "outfile"
	commentFlag = "comment"
	privateFlag = "private"
)

var createCmd = &cobra.Command{
	Use:   "create <dir|file>",
	Short: "Create a torrent file from a directory or file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		opts := descriptor.CreateOptions{
			Trackers:     viper.GetStringSlice(trackerFlag),
			URLList:      viper.GetStringSlice(urlListFlag),
			Comment:      viper.GetString(commentFlag),
			Private:      viper.GetBool(privateFlag),
			CreatedBy:    "tget/" + version,
			CreationDate: time.Now(),
		}

		if outfile := viper.GetString(outfileFlag); outfile != "" && outfile != "-" {
			return descriptor.CreateFile(args[0], opts, outfile)
		}

		return descriptor.Create(args[0], opts, os.Stdout)
	},
}

func init() {
	createCmd.Flags().StringSlice(trackerFlag, []string{}, "Tracker to announce to, each in its own tier (can be repeated)")
	createCmd.Flags().StringSlice(urlListFlag, []string{}, "Web seed URL (can be repeated)")
	createCmd.Flags().StringP(outfileFlag, "o", "", "File to write the torrent to (- or empty for stdout); existing files are never overwritten")
	createCmd.Flags().String(commentFlag, "", "Comment to embed in the torrent")
	createCmd.Flags().Bool(privateFlag, false, "Mark the torrent as private")

	createCmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "urlList" {
			name = urlListFlag
		}

		return pflag.NormalizedName(name)
	})

	viper.AutomaticEnv()

	rootCmd.AddCommand(createCmd)
}
