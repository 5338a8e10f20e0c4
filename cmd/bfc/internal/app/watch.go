package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/compiler"
	"github.com/barefootjs/bfc/internal/logger"
)

// newWatchCommand recompiles a .bf file under dir each time it is written or
// created. This is the build-orchestrator's job per spec §1's "explicitly out
// of scope" list, so the watcher here is deliberately minimal: the
// directories present under dir at startup are watched (ones created later
// are not), one adapter, no incremental caching.
func newWatchCommand(v *viper.Viper, log *zap.SugaredLogger) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile component sources under dir on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if outDir == "" {
				outDir = v.GetString("outDir")
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer watcher.Close()

			if err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return watcher.Add(path)
				}
				return nil
			}); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}

			log.Infow("watching", "dir", dir)
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !strings.HasSuffix(event.Name, ".bf") {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					recompileOne(event.Name, outDir, log)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Errorw("watch error", "err", err)
				}
			}
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from bfc.yaml)")
	return cmd
}

func recompileOne(path, outDir string, log *zap.SugaredLogger) {
	contents, err := os.ReadFile(path)
	if err != nil {
		log.Warnw("read failed", "file", path, "err", err)
		return
	}
	res := compiler.Compile(string(contents), path, compiler.Options{Adapter: reference.New()})
	for _, msg := range res.Errors {
		printDiagnostic(msg)
	}
	if res.Errors != nil {
		for _, msg := range res.Errors {
			if msg.Kind == logger.Error {
				return
			}
		}
	}
	if err := writeOutputs(outDir, res); err != nil {
		log.Errorw("write failed", "file", path, "err", err)
		return
	}
	log.Infow("recompiled", "file", path)
}
