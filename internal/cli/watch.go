package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"stubconv/config"
	"stubconv/internal/adapter/fs"
	"stubconv/internal/adapter/memstore"
	"stubconv/internal/logger"
	"stubconv/internal/usecase"
)

var (
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-convert stub files whenever they change",
	Long: `Convert the stub files once, then watch the directory and rewrite the
declaration file after every change. A malformed file is reported and the
watcher keeps running; the output then holds the declarations written before
the failing file.

Examples:
  stubconv watch ./stubs
  stubconv watch ./stubs -o types/api.d.ts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default from config)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "quiet period before re-converting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := sourceDir(args)
	if err != nil {
		return err
	}
	cfg := GetConfig()
	outPath := outputPath(watchOutput, cfg)

	// Unchanged files are served from memory between runs.
	cache := memstore.NewMemoryStore()
	defer cache.Close()
	convertUC := newConvertUseCase(cfg, cache)

	var mu sync.Mutex
	rebuild := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()

		start := time.Now()
		result, err := convertOnce(ctx, convertUC, path, outPath, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Errorw("Conversion failed", "error", err)
			fmt.Printf("[%s] conversion failed: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		fmt.Printf("[%s] %d file(s) converted, %d unchanged (%s)\n",
			time.Now().Format("15:04:05"),
			result.Stats.FilesConverted, result.Stats.FilesCached,
			formatDuration(time.Since(start)))
	}

	walker := fs.NewWalker(cfg.Convert.Includes, cfg.Convert.Excludes)
	watcher, err := fs.NewWatcher(path, walker, watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	ctx := cmd.Context()
	rebuild(ctx)
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", path)

	return watcher.Run(ctx, func(ctx context.Context, changed []string) {
		logger.Infow("Stub files changed", "count", len(changed))
		rebuild(ctx)
	})
}

// convertOnce rewrites the whole output file from a fresh walk.
func convertOnce(ctx context.Context, uc *usecase.ConvertUseCase, path, outPath string, cfg *config.Config) (*usecase.ConvertResult, error) {
	out, err := fs.CreateOutputFile(outPath, cfg.Convert.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	result, err := uc.Convert(ctx, path, out, nil)
	if err != nil {
		return result, err
	}
	return result, out.Close()
}
