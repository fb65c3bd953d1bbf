package colorspace

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want HSL
	}{
		{"#000000", HSL{0, 0, 0}},
		{"#FFFFFF", HSL{0, 0, 100}},
		{"#808080", HSL{0, 0, 50.19607843137255}},
		{"#FF0000", HSL{0, 100, 50}},
		{"#00ff00", HSL{120, 100, 50}},
		{"#0000FF", HSL{240, 100, 50}},
		{"#FFFF00", HSL{60, 100, 50}},
		{"#FF00FF", HSL{300, 100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := HexToHSL(tt.hex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !near(got.H, tt.want.H, 1e-9) || !near(got.S, tt.want.S, 1e-9) || !near(got.L, tt.want.L, 1e-9) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestHexToHSLRejectsMalformed(t *testing.T) {
	for _, hex := range []string{"", "#fff", "FFFFFF", "#GGGGGG", "#FFFFFFF", " #FFFFFF"} {
		if _, err := HexToHSL(hex); err == nil {
			t.Errorf("HexToHSL(%q) expected error", hex)
		}
	}
}

func TestHSLToHex(t *testing.T) {
	tests := []struct {
		in   HSL
		want string
	}{
		{HSL{0, 0, 0}, "#000000"},
		{HSL{0, 0, 100}, "#ffffff"},
		{HSL{0, 100, 50}, "#ff0000"},
		{HSL{120, 100, 50}, "#00ff00"},
		{HSL{240, 100, 50}, "#0000ff"},
		{HSL{360, 100, 50}, "#ff0000"},
		{HSL{0, 150, -20}, "#000000"},
	}

	for _, tt := range tests {
		if got := HSLToHex(tt.in); got != tt.want {
			t.Errorf("HSLToHex(%+v): expected '%s', got '%s'", tt.in, tt.want, got)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	channels := make([]int, 0, 90)
	for v := 0; v < 256; v += 3 {
		channels = append(channels, v)
	}
	channels = append(channels, 254, 255)

	for _, r := range channels {
		for _, g := range channels {
			for _, b := range channels {
				hex := fmt.Sprintf("#%02x%02x%02x", r, g, b)
				hsl, err := HexToHSL(hex)
				if err != nil {
					t.Fatalf("HexToHSL(%s): %v", hex, err)
				}
				if got := HSLToHex(hsl); got != hex {
					t.Fatalf("round trip of %s produced %s (via %+v)", hex, got, hsl)
				}
			}
		}
	}
}

func TestHexRoundTripIgnoresCase(t *testing.T) {
	hsl, err := HexToHSL("#AABBCC")
	if err != nil {
		t.Fatal(err)
	}
	if got := Normalize(HSLToHex(hsl)); got != "#AABBCC" {
		t.Errorf("expected '#AABBCC', got '%s'", got)
	}
}

// Hue is only well defined when chroma is large enough for 8-bit
// quantization to keep it within a degree.
func TestHSLRoundTripWithinOneUnit(t *testing.T) {
	for h := 0.0; h < 360; h += 15 {
		for _, s := range []float64{60, 80, 100} {
			for _, l := range []float64{40, 50, 60} {
				in := HSL{h, s, l}
				out, err := HexToHSL(HSLToHex(in))
				if err != nil {
					t.Fatal(err)
				}
				if hueDistance(in.H, out.H) > 1 || math.Abs(in.S-out.S) > 1 || math.Abs(in.L-out.L) > 1 {
					t.Errorf("round trip of %+v drifted to %+v", in, out)
				}
			}
		}
	}
}

func TestAchromaticRoundTripKeepsLightness(t *testing.T) {
	for l := 0.0; l <= 100; l += 5 {
		out, err := HexToHSL(HSLToHex(HSL{0, 0, l}))
		if err != nil {
			t.Fatal(err)
		}
		if out.S != 0 || out.H != 0 || math.Abs(out.L-l) > 1 {
			t.Errorf("lightness %v came back as %+v", l, out)
		}
	}
}

func TestPointerClamping(t *testing.T) {
	positions := []float64{-10, -0.5, 0, 0.25, 0.5, 1, 1.5, 42, math.NaN()}
	for _, x := range positions {
		for _, y := range positions {
			c := FromSatLightPointer(200, x, y)
			if c.S < 0 || c.S > 100 || c.L < 0 || c.L > 100 {
				t.Errorf("pointer (%v, %v) produced out-of-range %+v", x, y, c)
			}
		}
		if hue := HueFromPointer(x); hue < 0 || hue > 360 {
			t.Errorf("hue pointer %v produced %v", x, hue)
		}
	}
}

func TestSatLightPointerOrientation(t *testing.T) {
	top := FromSatLightPointer(0, 1, 0)
	if top.S != 100 || top.L != 100 {
		t.Errorf("top right: expected s=100 l=100, got %+v", top)
	}
	bottom := FromSatLightPointer(0, 0, 1)
	if bottom.S != 0 || bottom.L != 0 {
		t.Errorf("bottom left: expected s=0 l=0, got %+v", bottom)
	}
	if got := HueFromPointer(0.5); got != 180 {
		t.Errorf("expected hue 180, got %v", got)
	}
}

func TestIsHex(t *testing.T) {
	if !IsHex("#AABBCC") || !IsHex("#aabbcc") {
		t.Error("expected 6-digit colors to be accepted")
	}
	if IsHex("#fff") || IsHex(strings.Repeat("#", 7)) {
		t.Error("expected malformed colors to be rejected")
	}
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}
