package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"stubconv/internal/adapter/render"
	"stubconv/internal/domain"
	"stubconv/internal/errs"
	"stubconv/internal/logger"
	"stubconv/internal/port"
)

// ProgressFunc is called after each file with the running count.
type ProgressFunc func(processed, total int, currentFile string)

// ConvertUseCase converts every stub file below a root into one
// declaration output, file by file in walk order.
type ConvertUseCase struct {
	walker    port.FileWalker
	reader    port.FileReader
	assembler port.Assembler
	renderer  port.Renderer
	cache     port.BlockCache
}

// NewConvertUseCase creates a new convert use case. cache may be nil.
func NewConvertUseCase(
	walker port.FileWalker,
	reader port.FileReader,
	assembler port.Assembler,
	renderer port.Renderer,
	cache port.BlockCache,
) *ConvertUseCase {
	return &ConvertUseCase{
		walker:    walker,
		reader:    reader,
		assembler: assembler,
		renderer:  renderer,
		cache:     cache,
	}
}

// ConvertResult contains the results of a conversion run.
type ConvertResult struct {
	Stats domain.ConvertStats
	Files []domain.FileSummary
}

// Convert renders every file and appends the blocks to sink. The first
// input-format defect aborts the run; blocks of earlier files stay written.
func (u *ConvertUseCase) Convert(ctx context.Context, root string, sink port.Sink, progress ProgressFunc) (*ConvertResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &ConvertResult{}
	seen := make(map[string]bool, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		seen[file.Path] = true

		block, summary, cached, err := u.convertFile(file)
		if err != nil {
			return result, err
		}

		if err := sink.Append(block); err != nil {
			return result, fmt.Errorf("failed to write declarations for %s: %w", file.Path, err)
		}

		if cached {
			result.Stats.FilesCached++
		} else {
			result.Stats.FilesConverted++
		}
		result.Stats.Classes++
		result.Stats.Methods += summary.Methods
		result.Stats.Variables += summary.Variables
		result.Stats.BytesWritten += len(block)
		result.Files = append(result.Files, summary)

		logger.Debugw("Converted stub file",
			"file", file.RelPath,
			"class", summary.ClassName,
			"methods", summary.Methods,
			"variables", summary.Variables,
			"cached", cached)

		if progress != nil {
			progress(i+1, len(files), file.RelPath)
		}
	}

	if u.cache != nil {
		pruned, err := u.prune(seen)
		if err != nil {
			return result, fmt.Errorf("failed to prune cache: %w", err)
		}
		result.Stats.FilesPruned = pruned
	}

	return result, nil
}

// convertFile returns the rendered block of one file, from the cache when
// its content is unchanged.
func (u *ConvertUseCase) convertFile(file port.FileInfo) (string, domain.FileSummary, bool, error) {
	content, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return "", domain.FileSummary{}, false, fmt.Errorf("failed to read %s: %w", file.Path, err)
	}
	hash := contentHash(content)

	if u.cache != nil {
		cached, found, err := u.cache.Get(file.Path)
		if err != nil {
			logger.Warnw("Cache lookup failed", "file", file.Path, "error", err)
		} else if found && cached.ContentHash == hash {
			return cached.Block, domain.FileSummary{
				Path:      file.Path,
				RelPath:   file.RelPath,
				ClassName: cached.ClassName,
				Extends:   cached.Extends,
				Methods:   cached.Methods,
				Variables: cached.Variables,
			}, true, nil
		}
	}

	block, summary, err := u.ConvertFile(domain.SourceFile{
		Path:    file.Path,
		Content: content,
	})
	if err != nil {
		return "", domain.FileSummary{}, false, err
	}
	summary.RelPath = file.RelPath

	if u.cache != nil {
		err := u.cache.Put(domain.CachedBlock{
			Path:        file.Path,
			ContentHash: hash,
			Block:       block,
			ClassName:   summary.ClassName,
			Extends:     summary.Extends,
			Methods:     summary.Methods,
			Variables:   summary.Variables,
		})
		if err != nil {
			logger.Warnw("Cache write failed", "file", file.Path, "error", err)
		}
	}
	return block, summary, false, nil
}

// ConvertFile assembles and renders a single source file.
func (u *ConvertUseCase) ConvertFile(file domain.SourceFile) (string, domain.FileSummary, error) {
	stubs, err := u.assembler.Assemble(file)
	if err != nil {
		return "", domain.FileSummary{}, err
	}
	block, err := u.renderer.Render(file.Path, stubs)
	if err != nil {
		return "", domain.FileSummary{}, err
	}
	return block, render.Summarize(file.Path, stubs), nil
}

func (u *ConvertUseCase) prune(seen map[string]bool) (int, error) {
	paths, err := u.cache.Paths()
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, p := range paths {
		if seen[p] {
			continue
		}
		if err := u.cache.Delete(p); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

func contentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// IsInputDefect reports whether err aborted a run because of a malformed
// stub file rather than an I/O failure.
func IsInputDefect(err error) bool {
	return errs.IsFormatError(err)
}
