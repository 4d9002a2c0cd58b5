package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"stubconv/config"
	"stubconv/internal/adapter/analyzer"
	"stubconv/internal/adapter/assembler"
	"stubconv/internal/adapter/fs"
	"stubconv/internal/adapter/render"
	"stubconv/internal/adapter/store"
	"stubconv/internal/domain"
	"stubconv/internal/errs"
	"stubconv/internal/logger"
	"stubconv/internal/port"
	"stubconv/internal/usecase"
)

var (
	convertOutput     string
	convertNoCache    bool
	convertNoProgress bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [path]",
	Short: "Convert stub files into a declaration file",
	Long: `Convert every stub file in the specified directory into one TypeScript
declaration file. Files are processed in path order and the first malformed
file aborts the run; declarations of earlier files stay in the output.

Rendered blocks are cached in .stubconv/cache.db and reused while a file is
unchanged.

Examples:
  stubconv convert .                      # Convert stubs in current directory
  stubconv convert ./stubs -o api.d.ts    # Write to a specific file
  stubconv convert ./stubs --no-cache     # Re-render every file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default from config)")
	convertCmd.Flags().BoolVar(&convertNoCache, "no-cache", false, "ignore and do not update the block cache")
	convertCmd.Flags().BoolVar(&convertNoProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	path, err := sourceDir(args)
	if err != nil {
		return err
	}
	cfg := GetConfig()

	// Open the block cache
	var cache port.BlockCache
	var st *store.BoltStore
	if cfg.Cache.Enabled && !convertNoCache {
		st, err = openCache(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		cache = st
	}

	outPath := outputPath(convertOutput, cfg)
	out, err := fs.CreateOutputFile(outPath, cfg.Convert.Header)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	convertUC := newConvertUseCase(cfg, cache)

	fmt.Printf("Converting %s...\n", path)

	var progress usecase.ProgressFunc
	if !convertNoProgress {
		progress = newProgress("Converting")
	}

	start := time.Now()
	result, err := convertUC.Convert(cmd.Context(), path, out, progress)
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), result, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	var previous *domain.ConvertStats
	if st != nil {
		prev, err := st.GetLastRun()
		if err != nil {
			logger.Warnw("Failed to read previous run statistics", "error", err)
		} else {
			previous = &prev
		}
		if err := st.SetLastRun(result.Stats); err != nil {
			logger.Warnw("Failed to record run statistics", "error", err)
		}
	}

	logger.Infow("Conversion finished",
		"files", len(result.Files),
		"output", outPath,
		"duration", time.Since(start).String())

	// Print results
	fmt.Printf("\nConversion complete:\n")
	fmt.Printf("  Files converted: %d\n", result.Stats.FilesConverted)
	fmt.Printf("  Files cached:    %d (unchanged)\n", result.Stats.FilesCached)
	if result.Stats.FilesPruned > 0 {
		fmt.Printf("  Cache pruned:    %d (removed)\n", result.Stats.FilesPruned)
	}
	fmt.Printf("  Classes:         %d\n", result.Stats.Classes)
	fmt.Printf("  Methods:         %d\n", result.Stats.Methods)
	fmt.Printf("  Variables:       %d\n", result.Stats.Variables)
	if previous != nil {
		printRunDelta(cmd.OutOrStdout(), *previous, result.Stats)
	}

	fmt.Printf("\nDeclarations written to: %s\n", outPath)
	return nil
}

// sourceDir resolves the stub directory argument against the project root.
func sourceDir(args []string) (string, error) {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	return path, nil
}

func outputPath(flag string, cfg *config.Config) string {
	if flag != "" {
		if abs, err := filepath.Abs(flag); err == nil {
			return abs
		}
		return flag
	}
	return config.OutputPath(GetRootDir(), cfg)
}

// openCache opens the bolt block cache and drops it when the schema or the
// render configuration changed since it was written.
func openCache(cfg *config.Config) (*store.BoltStore, error) {
	if err := config.EnsureStateDir(GetRootDir(), cfg); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	dbPath := config.CacheDBPath(GetRootDir(), cfg)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open block cache: %w", err)
	}

	reason, err := st.Prepare(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check cache schema: %w", err)
	}
	if reason != "" {
		fmt.Printf("Cache rebuild required: %s\n", reason)
	}
	return st, nil
}

func newConvertUseCase(cfg *config.Config, cache port.BlockCache) *usecase.ConvertUseCase {
	mapper := analyzer.NewTypeMapper(cfg.Types.Overrides)
	return usecase.NewConvertUseCase(
		fs.NewWalker(cfg.Convert.Includes, cfg.Convert.Excludes),
		fs.Reader{},
		assembler.NewAssembler(mapper),
		render.NewRenderer(cfg.Render.Indent, cfg.Render.RestType),
		cache,
	)
}

// newProgress returns a progress callback that lazily creates the bar once
// the number of files is known.
func newProgress(label string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", label)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", label, formatDuration(eta)))
			}
		}
	}
}

// printRunDelta compares a run with the one recorded before it. Nothing is
// printed when no earlier run was recorded.
func printRunDelta(w io.Writer, prev, cur domain.ConvertStats) {
	if prev.FilesConverted+prev.FilesCached == 0 {
		return
	}
	fmt.Fprintf(w, "\nSince previous run:\n")
	fmt.Fprintf(w, "  Classes:         %+d\n", cur.Classes-prev.Classes)
	fmt.Fprintf(w, "  Methods:         %+d\n", cur.Methods-prev.Methods)
	fmt.Fprintf(w, "  Variables:       %+d\n", cur.Variables-prev.Variables)
}

// reportFailure prints what was written before a run aborted, plus the
// hints and details of a malformed file, and returns the error for cobra.
func reportFailure(w io.Writer, result *usecase.ConvertResult, err error) error {
	if errs.Is(err, context.Canceled) {
		return fmt.Errorf("conversion canceled")
	}
	if result != nil && len(result.Files) > 0 {
		fmt.Fprintf(w, "\n%d file(s) converted before the failure\n", len(result.Files))
	}
	if !usecase.IsInputDefect(err) {
		return fmt.Errorf("conversion failed: %w", err)
	}

	logger.Errorw("Malformed stub file", "error", err)
	for _, detail := range errs.GetAllDetails(err) {
		fmt.Fprintf(w, "detail: %s\n", detail)
	}
	if hint := errs.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
	return err
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
