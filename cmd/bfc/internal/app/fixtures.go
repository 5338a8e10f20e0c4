package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/compiler"
	"github.com/barefootjs/bfc/internal/conformance"
)

// newFixturesCommand exposes the conformance harness's expected-HTML
// bootstrapping script (spec §4.6) as a CLI subcommand.
func newFixturesCommand(v *viper.Viper, log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{Use: "fixtures", Short: "Manage conformance fixtures"}

	root.AddCommand(&cobra.Command{
		Use:   "bootstrap [fixtures.yaml]",
		Short: "Recompute and write expectedHtml for every fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			fixtures, err := conformance.LoadFixtures(path)
			if err != nil {
				return err
			}
			updated := conformance.Bootstrap(fixtures, compiler.Options{Adapter: reference.New()})
			if err := conformance.SaveFixtures(path, updated); err != nil {
				return err
			}
			log.Infow("bootstrapped fixtures", "file", path, "count", len(updated))
			fmt.Printf("wrote %d fixture(s) to %s\n", len(updated), path)
			return nil
		},
	})

	return root
}
