package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/scripting"
	"github.com/thnplay/thnplay/internal/thn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// checkResult is the outcome of validating one script.
type checkResult struct {
	Path    string
	Result  *result
	Err     error
	Skipped int
}

func (r checkResult) failed(strict bool) bool {
	return r.Err != nil || (strict && r.Skipped > 0)
}

// checkScripts loads and plays every script in dir on a bounded worker pool.
// Playback always runs unthrottled. Results keep the directory order.
func checkScripts(ctx context.Context, dir string, engine *scripting.Engine, templates thn.TemplateSource, cfg *config.Config, log *zap.Logger) ([]checkResult, error) {
	files, err := scripting.Files(dir)
	if err != nil {
		return nil, err
	}

	playback := cfg.Playback
	playback.Realtime = false

	results := make([]checkResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Check.Workers)
	for i, path := range files {
		g.Go(func() error {
			r := checkResult{Path: path}
			script, err := engine.LoadFile(path)
			if err == nil {
				r.Result, err = play(gctx, script, templates, playback, log)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.Err = err
			} else {
				r.Skipped = len(r.Result.Diagnostics)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runCheck(ctx context.Context, dir string, engine *scripting.Engine, templates thn.TemplateSource, cfg *config.Config, strict bool, log *zap.Logger) error {
	printSection("Check")
	results, err := checkScripts(ctx, dir, engine, templates, cfg, log)
	if err != nil {
		return fmt.Errorf("check %s: %w", dir, err)
	}

	failed := 0
	for _, r := range results {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			printFail(fmt.Sprintf("%s: %v", name, r.Err))
		case r.Skipped > 0:
			printWarn(fmt.Sprintf("%s: %d skipped events", name, r.Skipped))
			for _, d := range r.Result.Diagnostics {
				fmt.Printf("      %s\n", d.String())
			}
		default:
			printOK(name)
		}
		if r.failed(strict) {
			failed++
		}
	}
	fmt.Println()
	printStat("scripts", len(results))
	printStat("failed", failed)
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(results))
	}
	return nil
}
