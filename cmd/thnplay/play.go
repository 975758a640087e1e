package main

import (
	"context"
	"fmt"
	"time"

	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/core/event"
	"github.com/thnplay/thnplay/internal/persist"
	"github.com/thnplay/thnplay/internal/scripting"
	"github.com/thnplay/thnplay/internal/thn"
	"go.uber.org/zap"
)

// Journal stores playback summaries.
type Journal interface {
	Record(ctx context.Context, rec persist.RunRecord) (int64, error)
	Latest(ctx context.Context, script string) (*persist.RunRow, error)
}

// result summarizes one headless playback.
type result struct {
	Script      *thn.Script
	Clock       float64
	Events      int
	Completed   bool
	WallTime    time.Duration
	Diagnostics []thn.Diagnostic
}

func (r *result) record() persist.RunRecord {
	return persist.RunRecord{
		Script:      r.Script.Name,
		Checksum:    r.Script.Checksum,
		Duration:    r.Script.Duration,
		Clock:       r.Clock,
		Events:      r.Events,
		Completed:   r.Completed,
		WallTime:    r.WallTime,
		Diagnostics: r.Diagnostics,
	}
}

// play runs script to its duration plus the configured tail with a fixed
// step. In realtime mode each step waits for the tick rate.
func play(ctx context.Context, script *thn.Script, templates thn.TemplateSource, cfg config.PlaybackConfig, log *zap.Logger) (*result, error) {
	c, err := thn.New(script, templates, log)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	event.Subscribe(c.Bus(), func(ev event.TaskFinished) {
		log.Debug("task finished", zap.String("kind", ev.Kind), zap.Float64("clock", ev.Clock))
	})

	step := cfg.Step()
	if step <= 0 {
		return nil, fmt.Errorf("playback step %v does not advance the clock", step)
	}
	limit := script.Duration + cfg.Tail.Seconds()

	var ticker *time.Ticker
	if cfg.Realtime {
		ticker = time.NewTicker(cfg.TickRate)
		defer ticker.Stop()
	}

	start := time.Now()
	for c.Clock() < limit {
		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.Update(step)
	}

	return &result{
		Script:      script,
		Clock:       c.Clock(),
		Events:      c.DispatchedEvents(),
		Completed:   c.Done(),
		WallTime:    time.Since(start),
		Diagnostics: c.Diagnostics(),
	}, nil
}

// player plays single scripts for the interactive command.
type player struct {
	engine    *scripting.Engine
	templates thn.TemplateSource
	playback  config.PlaybackConfig
	journal   Journal
	log       *zap.Logger
}

func (p *player) playFile(ctx context.Context, path string) error {
	script, err := p.engine.LoadFile(path)
	if err != nil {
		printFail(err.Error())
		return err
	}

	printSection("Playback")
	printValue("script", script.Name)
	printValue("checksum", script.Checksum[:16])
	printValue("duration", fmt.Sprintf("%.2fs", script.Duration))
	printStat("entities", len(script.Entities))

	res, err := play(ctx, script, p.templates, p.playback, p.log)
	if err != nil {
		printFail(err.Error())
		return err
	}

	printStat("events dispatched", res.Events)
	printStat("events skipped", len(res.Diagnostics))
	printValue("wall time", res.WallTime.Round(time.Millisecond).String())
	for _, d := range res.Diagnostics {
		printWarn(d.String())
	}
	if res.Completed {
		printOK(fmt.Sprintf("completed at %.2fs", res.Clock))
	} else {
		printWarn(fmt.Sprintf("tasks still running at %.2fs", res.Clock))
	}

	if p.journal != nil {
		p.journalRun(ctx, res)
	}
	fmt.Println()
	return nil
}

func (p *player) journalRun(ctx context.Context, res *result) {
	prev, err := p.journal.Latest(ctx, res.Script.Name)
	if err != nil {
		p.log.Warn("journal lookup failed", zap.Error(err))
	} else if prev != nil && prev.Checksum != res.Script.Checksum {
		printWarn(fmt.Sprintf("script changed since run %d", prev.ID))
	}

	id, err := p.journal.Record(ctx, res.record())
	if err != nil {
		p.log.Warn("journal write failed", zap.Error(err))
		return
	}
	printOK(fmt.Sprintf("journaled as run %d", id))
}
