package layout

import (
	"strings"
	"testing"
)

func TestWrapKeepsLinesWithinMaxWidth(t *testing.T) {
	e := New(DefaultConfig())
	text := strings.Repeat("There is value in learning and understanding SQL ", 6)

	for _, fontSize := range []float64{12, 24, 48, 72, 96, 120} {
		lines := e.Wrap(text, fontSize)
		if len(lines) == 0 {
			t.Fatalf("font %v: expected lines", fontSize)
		}
		for _, line := range lines {
			if strings.Contains(line, " ") && e.LineWidth(line, fontSize) > e.MaxLineWidth() {
				t.Errorf("font %v: line %q is %.1fpx wide, max %.1fpx", fontSize, line, e.LineWidth(line, fontSize), e.MaxLineWidth())
			}
		}
		if got := strings.Join(lines, " "); got != strings.Join(strings.Fields(text), " ") {
			t.Errorf("font %v: wrapping lost words", fontSize)
		}
	}
}

func TestWrapPlacesLongWordAlone(t *testing.T) {
	e := New(DefaultConfig())
	long := strings.Repeat("x", 40) // 40 * 66px at size 120 exceeds 1728px
	lines := e.Wrap("short "+long+" tail", 120)

	want := []string{"short", long, "tail"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected '%s', got '%s'", i, want[i], lines[i])
		}
	}
}

func TestWrapEmptyText(t *testing.T) {
	if lines := New(DefaultConfig()).Wrap("   ", 48); len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}

func TestLineWidthCountsWideRunes(t *testing.T) {
	e := New(DefaultConfig())
	if got, want := e.LineWidth("ab", 100), 2*0.55*100; got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, want := e.LineWidth("学习", 100), 4*0.55*100; got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestHalo(t *testing.T) {
	e := New(DefaultConfig())

	if shadows := e.Halo(0); len(shadows) != 0 {
		t.Errorf("expected no shadows for zero stroke, got %d", len(shadows))
	}

	shadows := e.Halo(4)
	if len(shadows) != 17 {
		t.Fatalf("expected 16 directional shadows and 1 blur, got %d", len(shadows))
	}
	for i, s := range shadows[:16] {
		if s.Blur != 0 {
			t.Errorf("shadow %d should not blur", i)
		}
	}
	if got := shadows[0].CSS(); got != "4.00px 0.00px 0 #000" {
		t.Errorf("expected '4.00px 0.00px 0 #000', got '%s'", got)
	}
	if got := shadows[4].CSS(); got != "0.00px 4.00px 0 #000" {
		t.Errorf("expected '0.00px 4.00px 0 #000', got '%s'", got)
	}
	if got := shadows[16].CSS(); got != "0 0 2px #000" {
		t.Errorf("expected '0 0 2px #000', got '%s'", got)
	}
}

func TestPreviewScalesToContainer(t *testing.T) {
	e := New(Config{})
	p := e.Preview("hello world", 48, 4, 960)

	if p.Scale != 0.5 {
		t.Errorf("expected scale 0.5, got %v", p.Scale)
	}
	if p.FontSize != 24 || p.StrokeWidth != 2 {
		t.Errorf("expected font 24 and stroke 2, got %v and %v", p.FontSize, p.StrokeWidth)
	}
	if len(p.Lines) != 1 || p.Lines[0] != "hello world" {
		t.Errorf("unexpected lines %q", p.Lines)
	}
	css := p.TextShadowCSS()
	if !strings.HasPrefix(css, "2.00px 0.00px 0 #000, ") || !strings.HasSuffix(css, ", 0 0 1px #000") {
		t.Errorf("unexpected text-shadow %q", css)
	}
}

func TestPreviewWithoutStroke(t *testing.T) {
	p := New(DefaultConfig()).Preview("hello", 48, 0, 1920)
	if len(p.Shadows) != 0 {
		t.Errorf("expected no shadows, got %d", len(p.Shadows))
	}
	if got := p.TextShadowCSS(); got != "none" {
		t.Errorf("expected 'none', got '%s'", got)
	}
}
