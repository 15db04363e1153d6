package ocrspace

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Abraxas-365/ocrspace/configx"
	"github.com/Abraxas-365/ocrspace/validatex"
)

const (
	DefaultEndpoint    = "https://api.ocr.space/parse/image"
	DefaultLanguage    = "eng"
	DefaultImageFormat = "image/gif"
)

// Options configures a single parse call
type Options struct {
	APIKey string `json:"apikey" validatex:"required"`

	// Language is an OCR.space language code such as "eng", "por" or "chs"
	Language string `json:"language" validatex:"required,min=3"`

	// IsOverlayRequired asks for word coordinates in ParsedResult.TextOverlay
	IsOverlayRequired bool `json:"isOverlayRequired"`

	// ImageFormat is the MIME type declared in the Base64Image data URI
	ImageFormat string `json:"imageFormat" validatex:"regex=^[a-z]+/[a-zA-Z0-9.+-]+$"`

	// URL overrides the parse endpoint, e.g. for a PRO region
	URL string `json:"url" validatex:"url"`

	// OCREngine selects engine 1, 2 or 3; zero leaves the service default
	OCREngine int `json:"OCREngine,omitempty" validatex:"oneof=0 1 2 3"`

	// DetectOrientation lets the service rotate the image before parsing
	DetectOrientation bool `json:"detectOrientation,omitempty"`
}

// WithDefaults fills unset fields with the service defaults
func (o Options) WithDefaults() Options {
	if strings.TrimSpace(o.Language) == "" {
		o.Language = DefaultLanguage
	}
	if strings.TrimSpace(o.ImageFormat) == "" {
		o.ImageFormat = DefaultImageFormat
	}
	if strings.TrimSpace(o.URL) == "" {
		o.URL = DefaultEndpoint
	}
	return o
}

// MaskedAPIKey returns the key with everything but its edges hidden
func (o Options) MaskedAPIKey() string {
	if len(o.APIKey) > 8 {
		return o.APIKey[:4] + "****" + o.APIKey[len(o.APIKey)-4:]
	}
	return "****"
}

// prepare checks the key before anything else, then applies defaults and validates
func (o Options) prepare(requestID string) (Options, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return o, newError(ErrMissingAPIKey, requestID)
	}

	o = o.WithDefaults()
	if err := validatex.Validate(o); err != nil {
		xerr := registry.NewWithCause(ErrInvalidOptions, err).WithDetail("requestId", requestID)
		var verrs validatex.Errors
		if errors.As(err, &verrs) {
			xerr.WithDetail("fields", verrs.Fields())
		}
		return o, xerr
	}
	return o, nil
}

// formFields lists the fields every request carries, in wire order
func (o Options) formFields() []formField {
	fields := []formField{
		{name: "language", value: o.Language},
		{name: "isOverlayRequired", value: strconv.FormatBool(o.IsOverlayRequired)},
		{name: "apikey", value: o.APIKey},
	}
	if o.OCREngine != 0 {
		fields = append(fields, formField{name: "OCREngine", value: strconv.Itoa(o.OCREngine)})
	}
	if o.DetectOrientation {
		fields = append(fields, formField{name: "detectOrientation", value: "true"})
	}
	return fields
}

// LoadOptions reads options from cfg. With configx.NewEnvSource("OCRSPACE_", ...)
// the variables are OCRSPACE_API_KEY, OCRSPACE_LANGUAGE, OCRSPACE_OVERLAY,
// OCRSPACE_IMAGE_FORMAT, OCRSPACE_URL, OCRSPACE_ENGINE and OCRSPACE_DETECT_ORIENTATION.
func LoadOptions(cfg configx.Config) Options {
	return Options{
		APIKey:            cfg.Get("api.key").AsString(),
		Language:          cfg.Get("language").AsStringDefault(DefaultLanguage),
		IsOverlayRequired: cfg.Get("overlay").AsBoolDefault(false),
		ImageFormat:       cfg.Get("image.format").AsStringDefault(DefaultImageFormat),
		URL:               cfg.Get("url").AsStringDefault(DefaultEndpoint),
		OCREngine:         cfg.Get("engine").AsIntDefault(0),
		DetectOrientation: cfg.Get("detect.orientation").AsBoolDefault(false),
	}
}
