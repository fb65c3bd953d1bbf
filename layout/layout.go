package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	DefaultReferenceWidth  = 1920
	DefaultReferenceHeight = 1080

	// Average glyph advance of a bold sans-serif face relative to font size.
	DefaultCharWidthFactor = 0.55
	DefaultMaxWidthRatio   = 0.9
	DefaultHaloSteps       = 16
)

type Config struct {
	ReferenceWidth  int
	ReferenceHeight int
	CharWidthFactor float64
	MaxWidthRatio   float64
	HaloSteps       int
}

func DefaultConfig() Config {
	return Config{
		ReferenceWidth:  DefaultReferenceWidth,
		ReferenceHeight: DefaultReferenceHeight,
		CharWidthFactor: DefaultCharWidthFactor,
		MaxWidthRatio:   DefaultMaxWidthRatio,
		HaloSteps:       DefaultHaloSteps,
	}
}

// Estimator approximates caption wrapping at a fixed reference resolution.
// It is a preview heuristic, not a text measurement engine.
type Estimator struct {
	cfg Config
}

// New returns an Estimator. Zero fields in cfg take their defaults.
func New(cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.ReferenceWidth <= 0 {
		cfg.ReferenceWidth = def.ReferenceWidth
	}
	if cfg.ReferenceHeight <= 0 {
		cfg.ReferenceHeight = def.ReferenceHeight
	}
	if cfg.CharWidthFactor <= 0 {
		cfg.CharWidthFactor = def.CharWidthFactor
	}
	if cfg.MaxWidthRatio <= 0 {
		cfg.MaxWidthRatio = def.MaxWidthRatio
	}
	if cfg.HaloSteps <= 0 {
		cfg.HaloSteps = def.HaloSteps
	}
	return &Estimator{cfg: cfg}
}

func (e *Estimator) Config() Config {
	return e.cfg
}

// MaxLineWidth is the widest a line may be, in reference pixels.
func (e *Estimator) MaxLineWidth() float64 {
	return float64(e.cfg.ReferenceWidth) * e.cfg.MaxWidthRatio
}

// LineWidth estimates the rendered width of line in reference pixels.
// Each terminal cell counts as one average character.
func (e *Estimator) LineWidth(line string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(line)) * e.cfg.CharWidthFactor * fontSize
}

// Wrap greedily packs whitespace-delimited words into lines. A word wider
// than the maximum is never split; it gets a line of its own.
func (e *Estimator) Wrap(text string, fontSize float64) []string {
	limit := e.MaxLineWidth()
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && e.LineWidth(candidate, fontSize) > limit {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// Shadow is one CSS text-shadow layer.
type Shadow struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Blur float64 `json:"blur"`
}

func (s Shadow) CSS() string {
	if s.Blur > 0 {
		return fmt.Sprintf("0 0 %spx #000", strconv.FormatFloat(s.Blur, 'f', -1, 64))
	}
	return fmt.Sprintf("%.2fpx %.2fpx 0 #000", s.X, s.Y)
}

// Halo approximates an outline of the given radius with evenly spaced
// offset shadows plus one soft blur at half the radius. A radius of zero
// or less yields no shadows.
func (e *Estimator) Halo(radius float64) []Shadow {
	if radius <= 0 {
		return nil
	}
	steps := e.cfg.HaloSteps
	shadows := make([]Shadow, 0, steps+1)
	for i := 0; i < steps; i++ {
		angle := float64(i) / float64(steps) * 2 * math.Pi
		shadows = append(shadows, Shadow{
			X: math.Cos(angle) * radius,
			Y: math.Sin(angle) * radius,
		})
	}
	return append(shadows, Shadow{Blur: radius * 0.5})
}

// Preview is the caption overlay as it would appear in a container of a
// given width.
type Preview struct {
	Lines       []string `json:"lines"`
	Scale       float64  `json:"scale"`
	FontSize    float64  `json:"font_size"`
	StrokeWidth float64  `json:"stroke_width"`
	Shadows     []Shadow `json:"shadows"`
}

// Preview lays text out at reference size and scales the result to
// containerWidth.
func (e *Estimator) Preview(text string, fontSize, strokeWidth int, containerWidth float64) Preview {
	scale := 0.0
	if containerWidth > 0 {
		scale = containerWidth / float64(e.cfg.ReferenceWidth)
	}
	stroke := float64(strokeWidth) * scale
	return Preview{
		Lines:       e.Wrap(text, float64(fontSize)),
		Scale:       scale,
		FontSize:    float64(fontSize) * scale,
		StrokeWidth: stroke,
		Shadows:     e.Halo(stroke),
	}
}

// TextShadowCSS renders the halo as a CSS text-shadow value.
func (p Preview) TextShadowCSS() string {
	if len(p.Shadows) == 0 {
		return "none"
	}
	parts := make([]string, len(p.Shadows))
	for i, s := range p.Shadows {
		parts[i] = s.CSS()
	}
	return strings.Join(parts, ", ")
}
