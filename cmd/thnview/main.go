package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/data"
	"github.com/thnplay/thnplay/internal/scripting"
	"github.com/thnplay/thnplay/internal/thn"
	"github.com/thnplay/thnplay/internal/viewer"
	"github.com/thnplay/thnplay/internal/watch"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFlag := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	watchFlag := flag.Bool("watch", false, "reload when the script or template catalog changes")
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("usage: thnview [flags] script.thn")
	}
	scriptPath := flag.Arg(0)

	cfg, _, err := config.Resolve(*cfgFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	engine := scripting.NewEngine(log)
	load := func() (*thn.Cutscene, error) {
		templates, err := data.LoadTemplateCatalog(cfg.Data.Templates)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		script, err := engine.LoadFile(scriptPath)
		if err != nil {
			return nil, err
		}
		return thn.New(script, templates, log)
	}

	var reload <-chan string
	if *watchFlag {
		w, err := watch.NewWatcher(scriptPath, cfg.Data.Templates)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Close()
		reload = w.Events
	}

	game, err := viewer.New(cfg.Viewer, cfg.Playback.Speed, load, reload, log)
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle(cfg.Viewer.Title)
	log.Info("viewer started", zap.String("script", scriptPath), zap.Bool("watch", *watchFlag))

	return ebiten.RunGame(game)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
