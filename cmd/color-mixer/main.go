package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/config"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/input"
	"github.com/lixenwraith/color-mixer/level"
	"github.com/lixenwraith/color-mixer/motion"
	"github.com/lixenwraith/color-mixer/orchestrator"
	"github.com/lixenwraith/color-mixer/parameter"
	"github.com/lixenwraith/color-mixer/render"
	"github.com/lixenwraith/color-mixer/render/renderers"
	"github.com/lixenwraith/color-mixer/status"
	"github.com/lixenwraith/color-mixer/vessel"
)

// dropPoint is where ingredients are released, above the vessel opening
var dropPoint = core.Vec3{Y: 1.2}

func main() {
	fs := pflag.NewFlagSet("color-mixer", pflag.ContinueOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "color-mixer: %v\n", err)
		os.Exit(2)
	}

	logDir = cfg.Log.Dir
	logFile, logger := setupLogging(cfg.Log.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Exited with error")
		fmt.Fprintf(os.Stderr, "color-mixer: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	catalog, err := level.Load(cfg.Game.LevelsFile, cfg.Timing.RenewDelay)
	if err != nil {
		return err
	}
	levels, err := level.NewManager(catalog.Levels)
	if err != nil {
		return err
	}

	keys := input.DefaultKeyTable()
	if len(cfg.Keys) > 0 {
		override, err := input.ParseKeyOverrides(cfg.Keys)
		if err != nil {
			return err
		}
		keys = input.MergeKeyTable(keys, override)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	defer screen.Fini()

	// Crashes in detached goroutines restore the terminal before reporting
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		logger.Error().Interface("panic", r).Msg("Crashed")
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCOLOR-MIXER CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer core.SetCrashHandler(nil)

	tp := engine.NewMonotonicTimeProvider()
	reg := status.NewRegistry()

	var player audio.Player = audio.Silent{}
	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio.Volume, logger)
		if err := sm.Initialize(); err != nil {
			logger.Warn().Err(err).Msg("Audio unavailable, continuing without sound")
		} else {
			defer sm.Cleanup()
			player = sm
		}
	}
	cues := audio.NewMutable(player)

	v := vessel.New(vessel.Options{
		TimeProvider:           tp,
		LidDuration:            cfg.Timing.Lid,
		MixDuration:            cfg.Timing.Mix,
		ResetContentDuration:   cfg.Timing.ResetContent,
		ResetTransformDuration: cfg.Timing.ResetTransform,
		Logger:                 logger,
		Status:                 reg,
	})

	mover := motion.NewTimedMover(motion.Options{
		TimeProvider: tp,
		Duration:     cfg.Timing.Move,
		Frame:        cfg.Timing.FrameInterval,
		Logger:       logger,
	})

	view := render.NewTerminalView(render.ViewOptions{
		TimeProvider:   tp,
		CameraDuration: cfg.Timing.Camera,
		Logger:         logger,
	})

	orch, err := orchestrator.New(orchestrator.Options{
		Vessel:             v,
		Mover:              mover,
		View:               view,
		Levels:             levels,
		Cues:               cues,
		TimeProvider:       tp,
		PoolSize:           cfg.Pool.MaxSize,
		WaitBeforeCloseLid: cfg.Timing.WaitBeforeCloseLid,
		DispatchInterval:   cfg.Timing.DispatchInterval,
		WinThreshold:       cfg.Game.WinThreshold,
		PlacementWidth:     cfg.Game.PlacementWidth,
		ShelfDepth:         parameter.ShelfDepth,
		DropPoint:          dropPoint,
		Logger:             logger,
		Status:             reg,
	})
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		if err := serveMetrics(ctx, cfg.Metrics.Addr, reg, logger); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	core.Go(func() {
		if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, orchestrator.ErrClosed) {
			logger.Error().Err(err).Msg("Dispatch loop stopped")
		}
	})

	if _, err := orch.RestartLevel(); err != nil {
		return fmt.Errorf("start first level: %w", err)
	}

	pipeline := render.NewRenderOrchestrator(screen)
	renderers.RegisterAll(pipeline, renderers.HelpText)

	machine := input.NewMachine(keys)
	ctl := &controller{
		session:  orch,
		cues:     cues,
		onResize: pipeline.Resize,
		log:      logger,
	}

	// Input polling feeds the main loop; PollEvent returns nil after Fini
	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	frameTicker := time.NewTicker(cfg.Timing.FrameInterval)
	defer frameTicker.Stop()

	logger.Info().Str("level", levels.Current().Name).Msg("Session started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !ctl.apply(machine.Process(ev)) {
				return nil
			}
		case <-frameTicker.C:
			scene := render.Capture(orch, view, reg)
			scene.Muted = cues.Muted()
			pipeline.RenderFrame(tp.Now(), scene)
		}
	}
}
