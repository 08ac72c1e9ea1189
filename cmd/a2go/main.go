package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/config"
	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/core/event"
	coresys "github.com/a2go/engine/internal/core/system"
	"github.com/a2go/engine/internal/scripting"
	"github.com/a2go/engine/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("A2GO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Runtime and component registry
	bus := event.NewBus()
	rt := ecs.NewRuntime(cfg.Engine.MaxComponents, cfg.Engine.MaxSystems, bus, log)
	defer rt.Close()
	component.RegisterAll(rt)

	// 4. Templates and scripts
	printSection("data")
	if err := rt.Templates().LoadFile(cfg.Data.Templates); err != nil {
		return err
	}
	printStat("templates", rt.Templates().Len())

	lua, err := scripting.NewEngine(rt, cfg.Data.Scripts, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()
	printOK("lua scripts loaded")

	// 5. ECS systems and the gameplay world
	view := system.Viewport{X: cfg.View.X, Y: cfg.View.Y, Width: cfg.View.Width, Height: cfg.View.Height}
	system.RegisterGameplay(rt, view, system.LogCanvas{Log: log}, lua, log)
	world := rt.Push(system.TickSystems, system.DrawSystems)

	spawned := 0
	for _, s := range cfg.Spawn {
		count := max(s.Count, 1)
		id := s.ID
		if id == "" {
			id = s.Template
		}
		for i := 0; i < count; i++ {
			ent := world.NewEntityFromTemplate(s.Template, fmt.Sprintf("%s-%d", id, i), nil)
			lua.Attach(ent)
			spawned++
		}
	}
	printStat("entities spawned", spawned)

	event.Subscribe(bus, func(ev event.EntityFreed) {
		log.Debug("entity freed", zap.String("entity", ev.ID), zap.Uint64("handle", ev.Handle))
	})

	// 6. Frame services
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewWorldTickSystem(rt))
	runner.Register(system.NewWorldDrawSystem(rt))

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.FrameRate)
	defer ticker.Stop()

	printOK(fmt.Sprintf("frame loop running (frame: %s)", cfg.Engine.FrameRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.FrameRate)
			if cfg.Engine.Frames > 0 && runner.Frames() >= uint64(cfg.Engine.Frames) {
				log.Info("frame limit reached",
					zap.Uint64("frames", runner.Frames()),
					zap.Int("live", world.Len()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
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
