// Package demo is the example application: it logs its update rates, sends
// itself custom signals from the fixed update and draws a small status
// overlay.
package demo

import (
	"errors"
	"fmt"
	"log"
	"time"

	"tickloop/internal/app"
	"tickloop/internal/config"
	"tickloop/internal/event"
	"tickloop/internal/monitoring"
)

// Signal is the custom event payload of the demo.
type Signal string

const (
	SomeTimePassed Signal = "some_time_passed"
	LongTimePassed Signal = "long_time_passed"
)

const (
	logEveryFrames       = 30
	someTimePassedFrames = 30
	longTimePassedFrames = 90
	maxRememberedSignals = 4
	closeKey             = event.KeyCode("Escape")
)

var errNoProxy = errors.New("event source has no proxy")

// Handler is the demo event handler.
type Handler struct {
	app.BaseHandler[Signal]

	proxy          *event.Proxy[Signal]
	logger         *log.Logger
	monitor        *monitoring.LoopMonitor
	reportInterval time.Duration

	fixedFrames    uint64
	variableFrames uint64
	lastVariableDt time.Duration
	sinceReport    time.Duration
	lastKey        string
	signals        []Signal
	closeRequested bool
}

// NewHandler creates the demo handler for src. monitor may be nil and is
// ignored when monitoring is disabled in cfg.
func NewHandler(src event.Source[Signal], cfg *config.Config, logger *log.Logger, monitor *monitoring.LoopMonitor) (*Handler, error) {
	proxy := src.Proxy()
	if proxy == nil {
		return nil, errNoProxy
	}
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		proxy:  proxy,
		logger: logger,
	}
	if cfg.Monitoring.Enabled && monitor != nil {
		h.monitor = monitor
		h.reportInterval = cfg.GetReportInterval()
	}
	return h, nil
}

// Constructor adapts NewHandler to app.Constructor. The created handler is
// stored in *out so the caller can reach it, e.g. to draw its overlay.
func Constructor(cfg *config.Config, logger *log.Logger, monitor *monitoring.LoopMonitor, out **Handler) app.Constructor[Signal] {
	return func(src event.Source[Signal]) (app.Handler[Signal], error) {
		h, err := NewHandler(src, cfg, logger, monitor)
		if err != nil {
			return nil, err
		}
		if out != nil {
			*out = h
		}
		return h, nil
	}
}

func (h *Handler) IsCloseRequested() bool {
	return h.closeRequested
}

func (h *Handler) OnCloseRequested(event.WindowID) error {
	h.logger.Printf("Close requested")
	h.closeRequested = true
	return nil
}

func (h *Handler) OnDestroyed(event.WindowID) error {
	h.closeRequested = true
	return nil
}

func (h *Handler) OnScaleFactorChanged(_ event.WindowID, scaleFactor float64, newInnerSize *event.PhysicalSize) error {
	h.logger.Printf("Scale factor changed to %.2f (%dx%d)", scaleFactor, newInnerSize.Width, newInnerSize.Height)
	return nil
}

func (h *Handler) OnKeyPressed(_ event.WindowID, _ event.DeviceID, scanCode event.ScanCode, keyCode event.KeyCode, _, isRepeat bool) error {
	if keyCode == closeKey {
		h.closeRequested = true
		return nil
	}
	if isRepeat {
		h.lastKey = fmt.Sprintf("%s (repeat)", keyCode)
		return nil
	}
	h.lastKey = string(keyCode)
	h.logger.Printf("Key pressed: %s (scan code %d)", keyCode, scanCode)
	return nil
}

func (h *Handler) OnDeviceAdded(d event.DeviceID) error {
	h.logger.Printf("Device %d added", d)
	return nil
}

func (h *Handler) OnDeviceRemoved(d event.DeviceID) error {
	h.logger.Printf("Device %d removed", d)
	return nil
}

func (h *Handler) OnCustomEvent(payload Signal) error {
	h.logger.Printf("Received signal %s", payload)
	h.signals = append(h.signals, payload)
	if len(h.signals) > maxRememberedSignals {
		h.signals = h.signals[len(h.signals)-maxRememberedSignals:]
	}
	return nil
}

func (h *Handler) OnFixedUpdate(dt time.Duration) error {
	h.fixedFrames++
	if h.fixedFrames%logEveryFrames == 0 {
		h.logger.Printf("Fixed update %d (dt %v)", h.fixedFrames, dt)
	}
	if h.fixedFrames%someTimePassedFrames == 0 {
		if err := h.proxy.Send(SomeTimePassed); err != nil {
			return err
		}
	}
	if h.fixedFrames%longTimePassedFrames == 0 {
		if err := h.proxy.Send(LongTimePassed); err != nil {
			return err
		}
	}

	if h.reportInterval > 0 {
		h.sinceReport += dt
		if h.sinceReport >= h.reportInterval {
			h.sinceReport = 0
			h.report()
		}
	}
	return nil
}

func (h *Handler) OnVariableUpdate(dt time.Duration) error {
	h.variableFrames++
	h.lastVariableDt = dt
	if h.variableFrames%logEveryFrames == 0 {
		h.logger.Printf("Variable update %d (dt %v)", h.variableFrames, dt)
	}
	return nil
}

func (h *Handler) OnEventLoopDestroyed() error {
	h.logger.Printf("Event loop destroyed after %d fixed and %d variable updates", h.fixedFrames, h.variableFrames)
	if h.monitor != nil {
		h.report()
	}
	return nil
}

func (h *Handler) report() {
	m := h.monitor.GetCurrentMetrics()
	h.logger.Printf("Loop: %d fixed, %d variable (%.1f/s), %d events, max backlog %d",
		m.FixedUpdates, m.VariableUpdates, m.UpdatesPerSecond, m.EventsDispatched, m.MaxBacklog)
	if h.monitor.DetailedLogging() {
		stats := h.monitor.GetDetailedStats()
		h.logger.Printf("Loop details: avg fixed update %.3fms, avg variable dt %.3fms, uptime %.1fs, %d goroutines",
			stats["avg_fixed_update_ms"], stats["avg_variable_delta_ms"], stats["uptime_seconds"], stats["goroutines"])
	}
	for _, alert := range h.monitor.CheckPerformanceAlerts() {
		h.logger.Printf("Warning: %s", alert.Message)
	}
}

// FixedFrames returns the number of fixed updates run so far.
func (h *Handler) FixedFrames() uint64 {
	return h.fixedFrames
}

// Signals returns the most recent custom events received, oldest first.
func (h *Handler) Signals() []Signal {
	return h.signals
}
