package models

// Caption option bounds and defaults.
const (
	DefaultCaptionColor = "#000000"
	DefaultFontSize     = 48
	DefaultStrokeWidth  = 4

	MinFontSize    = 12
	MaxFontSize    = 120
	MinStrokeWidth = 0
	MaxStrokeWidth = 20
)

// CaptionOptions holds the styling and language choices for one submission.
type CaptionOptions struct {
	CaptionColor      string   `json:"caption_color" validate:"captioncolor"`
	FontSize          int      `json:"font_size" validate:"min=12,max=120"`
	StrokeWidth       int      `json:"stroke_width" validate:"min=0,max=20"`
	ConvertTo         string   `json:"convert_to" validate:"omitempty,langcode"`
	ExplicitLanguages []string `json:"explicit_langs" validate:"dive,langcode"`
}

// DefaultCaptionOptions returns the options a freshly opened form starts with.
func DefaultCaptionOptions() CaptionOptions {
	return CaptionOptions{
		CaptionColor:      DefaultCaptionColor,
		FontSize:          DefaultFontSize,
		StrokeWidth:       DefaultStrokeWidth,
		ExplicitLanguages: []string{},
	}
}
