package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pojntfx/tget/pkg/descriptor"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	outputFlag = "output"

	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	errMagnetWithoutInfo = errors.New("could not read metadata from a magnet link, use a torrent file")
	errUnknownOutput     = errors.New("could not use unknown output format")
)

var infoCmd = &cobra.Command{
	Use:     "info [file|-]",
	Aliases: []string{"i"},
	Short:   "Print the metadata of a torrent file",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		body, err := readDescriptor(args)
		if err != nil {
			return err
		}

		info, err := descriptor.Inspect(bytes.NewReader(body))
		if err != nil {
			return err
		}

		var out []byte
		switch viper.GetString(outputFlag) {
		case outputJSON:
			out, err = json.MarshalIndent(info, "", "  ")
			out = append(out, '\n')
		case outputYAML:
			out, err = yaml.Marshal(info)
		default:
			return errUnknownOutput
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s", out)

		return nil
	},
}

// readDescriptor reads the torrent file named by the first arg, or stdin
func readDescriptor(args []string) ([]byte, error) {
	token := source.Stdin
	if len(args) > 0 {
		token = args[0]
	}

	src, err := source.Resolve(token, os.Stdin)
	if err != nil {
		return nil, err
	}

	if src.IsMagnet() {
		return nil, errMagnetWithoutInfo
	}

	return src.Torrent, nil
}

func init() {
	infoCmd.PersistentFlags().StringP(outputFlag, "o", outputJSON, "Output format (json or yaml)")

	viper.AutomaticEnv()

	rootCmd.AddCommand(infoCmd)
}
