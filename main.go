package main

import (
	"flag"
	"log"
	"time"

	"tickloop/internal/app"
	"tickloop/internal/config"
	"tickloop/internal/demo"
	"tickloop/internal/monitoring"
	"tickloop/internal/platform/ebitensrc"
	"tickloop/internal/platform/scripted"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	replayPath := flag.String("replay", "", "replay a YAML event script without opening a window")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)

	monitor := newMonitor(cfg)

	if *replayPath != "" {
		if err := runReplay(cfg, monitor, *replayPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	a, err := app.NewFromConfig[demo.Signal](cfg, app.WithMonitor(monitor))
	if err != nil {
		log.Fatal(err)
	}

	src := ebitensrc.New[demo.Signal](cfg)
	var handler *demo.Handler
	src.SetOverlay(func(screen *ebiten.Image) {
		if handler != nil {
			handler.DrawOverlay(screen)
		}
	})
	if err := a.Run(src, demo.Constructor(cfg, log.Default(), monitor, &handler)); err != nil {
		log.Fatal(err)
	}
}

// newMonitor returns nil when monitoring is disabled, leaving the loop
// without metrics.
func newMonitor(cfg *config.Config) *monitoring.LoopMonitor {
	if !cfg.Monitoring.Enabled {
		return nil
	}
	monitor := monitoring.NewLoopMonitor()
	monitor.SetBacklogAlertThreshold(cfg.Monitoring.BacklogAlertThreshold)
	monitor.EnableDetailedLogging(cfg.Monitoring.DetailedStats)
	return monitor
}

// runReplay drives the demo from a script on a manual clock.
func runReplay(cfg *config.Config, monitor *monitoring.LoopMonitor, path string) error {
	steps, err := scripted.LoadScript[demo.Signal](path)
	if err != nil {
		return err
	}

	clock := scripted.NewClock(time.Now())
	a, err := app.NewFromConfig[demo.Signal](cfg, app.WithClock(clock.Now), app.WithMonitor(monitor))
	if err != nil {
		return err
	}
	src := scripted.New[demo.Signal](clock, steps...)
	if err := a.Run(src, demo.Constructor(cfg, log.Default(), monitor, nil)); err != nil {
		return err
	}
	log.Printf("Replayed %d events from %s", len(src.Delivered()), path)
	return nil
}
