package ocrspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abraxas-365/ocrspace/configx"
	"github.com/Abraxas-365/ocrspace/errx"
)

func TestPrepareAppliesDefaults(t *testing.T) {
	opts, err := Options{APIKey: "key"}.prepare("req")
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	if opts.Language != "eng" || opts.ImageFormat != "image/gif" || opts.URL != DefaultEndpoint {
		t.Fatalf("defaults not applied: %+v", opts)
	}

	fields := opts.formFields()
	want := []formField{{"language", "eng"}, {"isOverlayRequired", "false"}, {"apikey", "key"}}
	if len(fields) != len(want) {
		t.Fatalf("formFields() = %+v", fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("field %d = %+v, want %+v", i, fields[i], want[i])
		}
	}
}

func TestPrepareValidation(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantCode  errx.Code
		wantField string
	}{
		{"missing key", Options{}, ErrMissingAPIKey, ""},
		{"missing key wins over bad options", Options{OCREngine: 9, URL: "ftp://x"}, ErrMissingAPIKey, ""},
		{"short language", Options{APIKey: "k", Language: "en"}, ErrInvalidOptions, "Language"},
		{"bad endpoint", Options{APIKey: "k", URL: "ftp://ocr.example.com"}, ErrInvalidOptions, "URL"},
		{"bad image format", Options{APIKey: "k", ImageFormat: "gif"}, ErrInvalidOptions, "ImageFormat"},
		{"bad engine", Options{APIKey: "k", OCREngine: 4}, ErrInvalidOptions, "OCREngine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.prepare("req-7")
			if !errx.IsCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
			var xerr *errx.Error
			if !errors.As(err, &xerr) || xerr.Detail("requestId") != "req-7" {
				t.Fatalf("request id missing: %#v", err)
			}
			if tt.wantField == "" {
				return
			}
			fields, _ := xerr.Detail("fields").([]string)
			if len(fields) != 1 || fields[0] != tt.wantField {
				t.Fatalf("fields = %v, want [%s]", fields, tt.wantField)
			}
		})
	}
}

func TestMaskedAPIKey(t *testing.T) {
	if got := (Options{APIKey: "K81234567890"}).MaskedAPIKey(); got != "K812****7890" {
		t.Fatalf("MaskedAPIKey() = %q", got)
	}
	if got := (Options{APIKey: "short"}).MaskedAPIKey(); got != "****" {
		t.Fatalf("MaskedAPIKey() = %q", got)
	}
}

func TestLoadOptionsFromEnv(t *testing.T) {
	t.Setenv("OCRSPACE_API_KEY", "env-key")
	t.Setenv("OCRSPACE_LANGUAGE", "por")
	t.Setenv("OCRSPACE_OVERLAY", "true")
	t.Setenv("OCRSPACE_ENGINE", "2")

	cfg, err := configx.NewBuilder().FromEnv("OCRSPACE_").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	opts := LoadOptions(cfg)
	if opts.APIKey != "env-key" || opts.Language != "por" || !opts.IsOverlayRequired || opts.OCREngine != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.ImageFormat != DefaultImageFormat || opts.URL != DefaultEndpoint {
		t.Fatalf("defaults missing: %+v", opts)
	}
}

func TestLoadOptionsLayering(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	content := "OCRSPACE_API_KEY=file-key\nOCRSPACE_IMAGE_FORMAT=\"image/png\"\n"
	if err := os.WriteFile(dotenv, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := configx.NewBuilder().
		WithDefaults(map[string]any{"language": "spa"}).
		FromDotEnv(dotenv, "OCRSPACE_").
		FromMap(map[string]any{"url": "https://eu.ocr.example.com/parse/image"}, "overrides").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	opts := LoadOptions(cfg)
	if opts.APIKey != "file-key" {
		t.Fatalf("APIKey = %q", opts.APIKey)
	}
	if opts.Language != "spa" || opts.ImageFormat != "image/png" || opts.URL != "https://eu.ocr.example.com/parse/image" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
