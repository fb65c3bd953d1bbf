package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nijaru/autocaption/colorspace"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/languages"
	"github.com/nijaru/autocaption/layout"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/orchestrator"
	"github.com/nijaru/autocaption/tui"
	"github.com/nijaru/autocaption/validation"
)

func cmdPreview(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(a.out)
	color := fs.String("color", models.DefaultCaptionColor, "caption color as #RRGGBB")
	fontSize := fs.Int("font-size", models.DefaultFontSize, "caption font size (12-120)")
	stroke := fs.Int("stroke", models.DefaultStrokeWidth, "caption stroke width (0-20)")
	lang := fs.String("lang", languages.Fallback, "language of the sample text")
	width := fs.Float64("width", 640, "preview container width in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, err := validation.ValidateOptions(models.CaptionOptions{
		CaptionColor: *color,
		FontSize:     *fontSize,
		StrokeWidth:  *stroke,
	})
	if err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		text = languages.Sample(*lang)
	}

	p := layout.New(a.cfg.Preview).Preview(text, opts.FontSize, opts.StrokeWidth, *width)

	caption := lipgloss.NewStyle().
		Foreground(lipgloss.Color(opts.CaptionColor)).
		Bold(true).
		Align(lipgloss.Center).
		Render(strings.Join(p.Lines, "\n"))
	fmt.Fprintln(a.out, tui.BoxStyle.Render(caption))

	fmt.Fprintf(a.out, "Language:    %s\n", languages.Name(*lang))
	fmt.Fprintf(a.out, "Lines:       %d\n", len(p.Lines))
	fmt.Fprintf(a.out, "Scale:       %.3f\n", p.Scale)
	fmt.Fprintf(a.out, "Font size:   %.2fpx\n", p.FontSize)
	fmt.Fprintf(a.out, "Stroke:      %.2fpx\n", p.StrokeWidth)
	fmt.Fprintf(a.out, "text-shadow: %s\n", p.TextShadowCSS())
	return nil
}

func cmdColor(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("color", flag.ContinueOnError)
	fs.SetOutput(a.out)
	hsl := fs.String("hsl", "", "convert h,s,l (degrees, percent, percent) to hex")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *hsl != "" {
		c, err := parseHSL(*hsl)
		if err != nil {
			return err
		}
		hex := colorspace.Normalize(colorspace.HSLToHex(c))
		fmt.Fprintln(a.out, tui.Swatch(hex))
		return nil
	}

	if fs.NArg() != 1 {
		return errors.InvalidInput("color", nil, "expected a color as #RRGGBB or -hsl h,s,l")
	}
	c, err := colorspace.HexToHSL(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.Swatch(colorspace.Normalize(fs.Arg(0))))
	fmt.Fprintf(a.out, "hsl(%.0f, %.0f%%, %.0f%%)\n", c.H, c.S, c.L)
	return nil
}

func parseHSL(s string) (colorspace.HSL, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colorspace.HSL{}, errors.InvalidInput("parseHSL", nil, "expected h,s,l")
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "%")), 64)
		if err != nil {
			return colorspace.HSL{}, errors.InvalidInput("parseHSL", err, fmt.Sprintf("invalid number %q", part))
		}
		v[i] = f
	}
	return colorspace.HSL{H: v[0], S: v[1], L: v[2]}, nil
}

func cmdEstimate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	length := fs.Duration("duration", 0, "video length")
	sizeMB := fs.Float64("size-mb", -1, "file size in MB instead of a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	size := *sizeMB
	if size < 0 {
		if fs.NArg() != 1 {
			return errors.InvalidInput("estimate", nil, "expected a video file or -size-mb")
		}
		info, err := os.Stat(fs.Arg(0))
		if err != nil {
			return errors.InvalidInput("estimate", err, fmt.Sprintf("cannot read %s", fs.Arg(0)))
		}
		size = orchestrator.SizeMB(info.Size())
	}

	minutes := orchestrator.EstimateProcessingTime(size, *length)
	fmt.Fprintf(a.out, "Estimated processing time: %s minutes\n", strconv.FormatFloat(minutes, 'f', -1, 64))
	return nil
}

func cmdLanguages(ctx context.Context, a *app, args []string) error {
	for _, l := range languages.Supported() {
		fmt.Fprintf(a.out, "%-6s %s\n", l.Code, l.Name)
	}
	return nil
}
