package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/barefootjs/bfc/internal/adapter/gotemplate"
	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/compiler"
	"github.com/barefootjs/bfc/internal/logger"
)

func newCompileCommand(v *viper.Viper, log *zap.SugaredLogger) *cobra.Command {
	var outDir string
	var adapterName string
	var outputIR, contentHash, minify, clientOnly bool

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile one or more component source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = v.GetString("outDir")
			}
			if adapterName == "" {
				adapterName = v.GetString("adapter")
			}

			opts := compiler.Options{
				OutputIR:    outputIR || v.GetBool("outputIR"),
				ContentHash: contentHash || v.GetBool("contentHash"),
				Minify:      minify || v.GetBool("minify"),
				ClientOnly:  clientOnly,
			}
			switch adapterName {
			case "gotemplate":
				opts.Adapter = gotemplate.New(v.GetString("goTemplatePackage"))
			default:
				opts.Adapter = reference.New()
			}

			failed := false
			for _, path := range args {
				contents, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				res := compiler.Compile(string(contents), path, opts)
				for _, msg := range res.Errors {
					printDiagnostic(msg)
					if msg.Kind == logger.Error {
						failed = true
					}
				}
				if failed {
					continue
				}
				if err := writeOutputs(outDir, res); err != nil {
					return err
				}
				log.Infow("compiled", "file", path, "outputs", len(res.Files))
			}
			if failed {
				return fmt.Errorf("compile failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from bfc.yaml)")
	cmd.Flags().StringVar(&adapterName, "adapter", "", "reference | gotemplate")
	cmd.Flags().BoolVar(&outputIR, "output-ir", false, "also emit a .ir.json sibling file")
	cmd.Flags().BoolVar(&contentHash, "content-hash", false, "append a content hash to client-script filenames")
	cmd.Flags().BoolVar(&minify, "minify", false, "accepted for config compatibility; client scripts are not minified")
	cmd.Flags().BoolVar(&clientOnly, "client-only", false, "emit only the client script")
	return cmd
}

func writeOutputs(outDir string, res compiler.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, f := range res.Files {
		full := filepath.Join(outDir, filepath.Base(f.Path))
		if err := os.WriteFile(full, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", full, err)
		}
	}
	return nil
}

func printDiagnostic(msg logger.Msg) {
	useColor := true
	fmt.Fprintln(os.Stderr, logger.FormatMsg(msg, useColor, logger.TerminalWidth()))
}
