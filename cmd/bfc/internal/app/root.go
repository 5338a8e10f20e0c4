// Package app builds the bfc command tree: compile, watch, and fixtures
// bootstrap, layered over a viper-backed config file (bfc.yaml).
package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewRootCommand wires every subcommand under one cobra root, with a
// persistent --config flag feeding a shared viper instance.
func NewRootCommand(log *zap.SugaredLogger) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "bfc",
		Short:         "Compile reactive components into marked templates and client scripts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v.SetConfigType("yaml")
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			} else {
				v.SetConfigName("bfc")
				v.AddConfigPath(".")
			}
			v.SetDefault("adapter", "reference")
			v.SetDefault("outDir", "dist")
			v.SetDefault("minify", false)
			v.SetDefault("contentHash", false)

			if err := v.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return fmt.Errorf("reading bfc.yaml: %w", err)
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to bfc.yaml")

	root.AddCommand(newCompileCommand(v, log))
	root.AddCommand(newWatchCommand(v, log))
	root.AddCommand(newFixturesCommand(v, log))
	return root
}
