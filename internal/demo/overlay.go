package demo

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	overlayBackground = color.RGBA{0, 0, 0, 160}
	overlayText       = color.RGBA{220, 220, 220, 255}
)

const (
	overlayMargin     = 8
	overlayPadding    = 6
	overlayLineHeight = 16
)

// OverlayLines returns the status lines drawn by DrawOverlay.
func (h *Handler) OverlayLines() []string {
	lines := []string{
		fmt.Sprintf("fixed updates: %d", h.fixedFrames),
		fmt.Sprintf("variable updates: %d (dt %v)", h.variableFrames, h.lastVariableDt),
	}
	if h.lastKey != "" {
		lines = append(lines, "last key: "+h.lastKey)
	}
	for _, s := range h.signals {
		lines = append(lines, "signal: "+string(s))
	}
	return lines
}

// DrawOverlay draws the status panel and, when monitoring, the loop stats.
func (h *Handler) DrawOverlay(screen *ebiten.Image) {
	face := basicfont.Face7x13
	lines := h.OverlayLines()

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Round(); w > width {
			width = w
		}
	}
	height := len(lines) * overlayLineHeight
	vector.DrawFilledRect(screen, overlayMargin, overlayMargin,
		float32(width+2*overlayPadding), float32(height+2*overlayPadding), overlayBackground, false)

	for i, line := range lines {
		baseline := overlayMargin + overlayPadding + i*overlayLineHeight + face.Ascent
		ebitext.Draw(screen, line, face, overlayMargin+overlayPadding, baseline, overlayText)
	}

	if h.monitor != nil {
		m := h.monitor.GetCurrentMetrics()
		stats := fmt.Sprintf("TPS: %0.1f  FPS: %0.1f  backlog max: %d", ebiten.ActualTPS(), ebiten.ActualFPS(), m.MaxBacklog)
		ebitenutil.DebugPrintAt(screen, stats, overlayMargin, screen.Bounds().Dy()-overlayLineHeight-overlayMargin)
	}
}
