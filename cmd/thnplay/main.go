package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/data"
	"github.com/thnplay/thnplay/internal/persist"
	"github.com/thnplay/thnplay/internal/scripting"
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

// ── Startup display helpers ────────────────────────────────────────

func printBanner(cfgPath string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              thnplay  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m         Thn cutscene playback engine      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	if cfgPath == "" {
		cfgPath = "built-in defaults"
	}
	fmt.Printf("  \033[1mconfig:\033[0m %s\n\n", cfgPath)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	printValue(label, fmt.Sprintf("%d", count))
}

func printValue(label, value string) {
	dotsLen := 42 - len(label) - len(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printWarn(msg string) {
	fmt.Printf("  \033[33m!\033[0m %s\n", msg)
}

func printFail(msg string) {
	fmt.Printf("  \033[31m✗\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main logic ────────────────────────────────────────────────────

func run() error {
	cfgFlag := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	checkDir := flag.String("check", "", "validate every script in `dir` and exit")
	strict := flag.Bool("strict", false, "with -check, treat skipped events as failures")
	watchFlag := flag.Bool("watch", false, "replay the script whenever it or the template catalog changes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: thnplay [flags] script.thn\n       thnplay [flags] -check dir\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1. Load config
	cfg, cfgPath, err := config.Resolve(*cfgFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load templates
	printSection("Data")
	templates, err := data.LoadTemplateCatalog(cfg.Data.Templates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	printStat("templates", templates.Count())
	fmt.Println()

	engine := scripting.NewEngine(log)

	if *checkDir != "" {
		return runCheck(ctx, *checkDir, engine, templates, cfg, *strict, log)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected one script, got %d", flag.NArg())
	}
	scriptPath := flag.Arg(0)

	// 4. Optional journal
	var journal Journal
	if cfg.Database.DSN != "" {
		printSection("Journal")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.Open(dbCtx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected, migrations applied")
		fmt.Println()
		journal = persist.NewRunRepo(db)
	}

	p := &player{
		engine:    engine,
		templates: templates,
		playback:  cfg.Playback,
		journal:   journal,
		log:       log,
	}

	if err := p.playFile(ctx, scriptPath); err != nil && !*watchFlag {
		return err
	}
	if !*watchFlag {
		return nil
	}

	// 5. Replay on change
	w, err := watch.NewWatcher(scriptPath, cfg.Data.Templates)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	printSection("Watching")
	printReady(fmt.Sprintf("%s (ctrl-c to stop)", scriptPath))
	fmt.Println()

	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info("change detected", zap.String("path", path))
			if isCatalog(path) {
				catalog, err := data.LoadTemplateCatalog(cfg.Data.Templates)
				if err != nil {
					log.Warn("template reload failed", zap.Error(err))
					continue
				}
				p.templates = catalog
			}
			if err := p.playFile(ctx, scriptPath); err != nil {
				log.Warn("replay failed", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if ok {
				log.Warn("watch error", zap.Error(err))
			}
		case <-ctx.Done():
			log.Info("stopped")
			return nil
		}
	}
}

func isCatalog(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
