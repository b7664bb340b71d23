package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pojntfx/tget/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	raddrFlag = "raddr"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get the progress of a running instance from its status server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		if strings.TrimSpace(viper.GetString(apiPasswordFlag)) == "" {
			return errMissingAPIPassword
		}

		if strings.TrimSpace(viper.GetString(apiUsernameFlag)) == "" {
			return errMissingAPIUsername
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		manager := client.NewManager(
			viper.GetString(raddrFlag),
			viper.GetString(apiUsernameFlag),
			viper.GetString(apiPasswordFlag),
			ctx,
		)

		status, err := manager.GetStatus()
		if err != nil {
			return err
		}

		y, err := yaml.Marshal(status)
		if err != nil {
			return err
		}

		fmt.Printf("%s", y)

		return nil
	},
}

func init() {
	statusCmd.PersistentFlags().StringP(apiUsernameFlag, "u", "admin", "Username for the status server")
	statusCmd.PersistentFlags().StringP(apiPasswordFlag, "P", "", "Password or OIDC access token for the status server")
	statusCmd.PersistentFlags().StringP(raddrFlag, "r", "http://localhost:1337/", "Remote address")

	viper.AutomaticEnv()

	rootCmd.AddCommand(statusCmd)
}
