package ocr

// Details levels understood by providers
const (
	DetailsLow    = "low"
	DetailsMedium = "medium"
	DetailsHigh   = "high"
)

// OCROptions contains options for OCR operations
type OCROptions struct {
	// Engine selects a provider-specific recognition engine; zero is the provider default
	Engine int

	// Language specifies the expected language of the text, e.g. "eng"
	Language string

	// DetectOrientation automatically rotates the image if needed
	DetectOrientation bool

	// DetailsLevel controls how much detail is returned
	// "high" returns word positions
	// "medium" and "low" return just the extracted text
	DetailsLevel string

	// ImageFormat overrides the MIME type sniffed from the image bytes
	ImageFormat string
}

// Option is a function type to modify OCROptions
type Option func(*OCROptions)

// WithEngine sets the recognition engine
func WithEngine(engine int) Option {
	return func(o *OCROptions) {
		o.Engine = engine
	}
}

// WithLanguage sets the expected language
func WithLanguage(language string) Option {
	return func(o *OCROptions) {
		o.Language = language
	}
}

// WithDetectOrientation enables automatic image orientation detection
func WithDetectOrientation(detect bool) Option {
	return func(o *OCROptions) {
		o.DetectOrientation = detect
	}
}

// WithDetailsLevel sets the level of detail in the results
func WithDetailsLevel(level string) Option {
	return func(o *OCROptions) {
		o.DetailsLevel = level
	}
}

// WithImageFormat sets the MIME type of the image
func WithImageFormat(format string) Option {
	return func(o *OCROptions) {
		o.ImageFormat = format
	}
}

// DefaultOptions returns the default OCR options
func DefaultOptions() *OCROptions {
	return &OCROptions{
		Language:     "eng",
		DetailsLevel: DetailsMedium,
	}
}

// Apply builds options from the defaults and opts
func Apply(opts ...Option) *OCROptions {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
