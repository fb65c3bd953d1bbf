package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nijaru/autocaption/colorspace"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/languages"
	"github.com/nijaru/autocaption/models"
)

// AllowedVideoExtensions lists the upload extensions the storage side accepts.
var AllowedVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("captioncolor", func(fl validator.FieldLevel) bool {
		return colorspace.IsHex(fl.Field().String())
	})
	v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return languages.IsSupported(fl.Field().String())
	})
	return v
}

// ValidateOptions checks caption options and returns their normalized
// form: upper-case color, lower-case de-duplicated language codes.
// Failures are a validation *errors.Error with one message per field.
func ValidateOptions(opts models.CaptionOptions) (models.CaptionOptions, error) {
	normalized := normalizeOptions(opts)

	err := validate.Struct(normalized)
	if err == nil {
		normalized.CaptionColor = colorspace.Normalize(normalized.CaptionColor)
		return normalized, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return opts, errors.Internal("ValidateOptions", err, "validator misconfigured")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return opts, errors.Validation("ValidateOptions", fields)
}

func normalizeOptions(opts models.CaptionOptions) models.CaptionOptions {
	out := opts
	out.CaptionColor = strings.TrimSpace(opts.CaptionColor)
	out.ConvertTo = languages.Normalize(opts.ConvertTo)

	out.ExplicitLanguages = make([]string, 0, len(opts.ExplicitLanguages))
	seen := make(map[string]bool, len(opts.ExplicitLanguages))
	for _, code := range opts.ExplicitLanguages {
		code = languages.Normalize(code)
		if seen[code] {
			continue
		}
		seen[code] = true
		out.ExplicitLanguages = append(out.ExplicitLanguages, code)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "captioncolor":
		return "Invalid hex color format"
	case "langcode":
		return fmt.Sprintf("Unsupported language code: %q", fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", label(fe.Field()), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label(fe.Field()))
	}
}

func label(field string) string {
	switch field {
	case "font_size":
		return "Font size"
	case "stroke_width":
		return "Stroke width"
	default:
		return field
	}
}

// ValidateEmail checks a notification address.
func ValidateEmail(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.InvalidInput("ValidateEmail", nil, "email is required")
	}
	if err := validate.Var(addr, "email"); err != nil {
		return errors.InvalidInput("ValidateEmail", nil, "invalid email address")
	}
	return nil
}

// ValidateVideoFilename checks an upload filename and returns its
// lower-cased extension.
func ValidateVideoFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.InvalidInput("ValidateVideoFilename", nil, "filename is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", errors.InvalidInput("ValidateVideoFilename", nil, "filename must not contain a path")
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedVideoExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", errors.InvalidInput("ValidateVideoFilename", nil,
		fmt.Sprintf("Invalid file extension. Allowed: %s", strings.Join(AllowedVideoExtensions, ", ")))
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return errors.InvalidInput("ValidateURL", nil, "URL is required")
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return errors.InvalidInput("ValidateURL", err, "invalid URL format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput("ValidateURL", nil, "URL must start with http or https")
	}
	if parsedURL.Host == "" {
		return errors.InvalidInput("ValidateURL", nil, "URL must have a host")
	}
	return nil
}
