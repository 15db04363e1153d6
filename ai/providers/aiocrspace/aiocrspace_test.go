package aiocrspace

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/Abraxas-365/ocrspace/ai/ocr"
	"github.com/Abraxas-365/ocrspace/clients/ocrspace"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubService struct {
	mu     sync.Mutex
	fields map[string]string
	body   string
}

func (s *stubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.fields = map[string]string{}
	for k, v := range r.MultipartForm.Value {
		s.fields[k] = v[0]
	}
	s.mu.Unlock()
	io.WriteString(w, s.body)
}

func (s *stubService) field(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[name]
}

func newProvider(t *testing.T, body string) (*OCRSpaceProvider, *stubService) {
	t.Helper()
	svc := &stubService{body: body}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	return NewOCRSpaceProvider("test-key", WithEndpoint(srv.URL)), svc
}

func TestExtractTextHighDetail(t *testing.T) {
	body := `{"ParsedResults":[{"FileParseExitCode":1,"ParsedText":"Total 42","TextOverlay":{"HasOverlay":true,"Lines":[{"Words":[{"WordText":"Total","Left":4,"Top":10,"Width":50,"Height":12},{"WordText":"42","Left":60,"Top":10,"Width":18,"Height":12}]}]}}],"ProcessingTimeInMilliseconds":"250"}`
	provider, svc := newProvider(t, body)

	res, err := ocr.NewClient(provider).ExtractText(context.Background(), pngHeader,
		ocr.WithDetailsLevel(ocr.DetailsHigh), ocr.WithLanguage("ger"), ocr.WithEngine(2))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if res.Text != "Total 42" || res.Pages != 1 || res.Usage.ProcessingTime != 250 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Blocks) != 2 || res.Blocks[1].Text != "42" || res.Blocks[1].BoundingBox.X != 60 || res.Blocks[1].Page != 1 {
		t.Fatalf("unexpected blocks: %+v", res.Blocks)
	}

	if !strings.HasPrefix(svc.field("Base64Image"), "data:image/png;base64,") {
		t.Fatalf("image format not sniffed: %q", svc.field("Base64Image"))
	}
	if svc.field("isOverlayRequired") != "true" || svc.field("language") != "ger" || svc.field("OCREngine") != "2" {
		t.Fatalf("unexpected form: overlay=%q language=%q engine=%q", svc.field("isOverlayRequired"), svc.field("language"), svc.field("OCREngine"))
	}
	if svc.field("apikey") != "test-key" {
		t.Fatalf("apikey = %q", svc.field("apikey"))
	}
}

func TestExtractTextFromURLPartialFailure(t *testing.T) {
	body := `{"ParsedResults":[{"FileParseExitCode":1,"ParsedText":"page one"},{"FileParseExitCode":-10,"ErrorMessage":"engine error"}]}`
	provider, svc := newProvider(t, body)

	res, err := provider.ExtractTextFromURL(context.Background(), "https://example.com/two-pages.pdf")
	if err != nil {
		t.Fatalf("ExtractTextFromURL() error = %v", err)
	}
	if res.Pages != 2 || len(res.FailedPages) != 1 || res.FailedPages[0] != 2 {
		t.Fatalf("unexpected pages: %+v", res)
	}
	if res.Blocks != nil {
		t.Fatalf("blocks should only be filled for high detail")
	}
	if svc.field("url") != "https://example.com/two-pages.pdf" || svc.field("isOverlayRequired") != "false" {
		t.Fatalf("unexpected form url=%q", svc.field("url"))
	}
}

func TestAllPagesFailed(t *testing.T) {
	provider, _ := newProvider(t, `{"ParsedResults":[{"FileParseExitCode":-20,"ErrorMessage":"Timeout"}]}`)

	_, err := provider.ExtractTextFromURL(context.Background(), "https://example.com/a.png")
	if !ocrspace.IsRemoteService(err) {
		t.Fatalf("expected REMOTE_SERVICE_ERROR, got %v", err)
	}
}

func TestMissingKey(t *testing.T) {
	t.Setenv("OCRSPACE_API_KEY", "")
	provider := NewOCRSpaceProvider("", WithEndpoint("http://127.0.0.1:1"))

	_, err := provider.ExtractText(context.Background(), pngHeader)
	if !ocrspace.IsMissingAPIKey(err) {
		t.Fatalf("expected MISSING_API_KEY, got %v", err)
	}
}

func encodeImage(t *testing.T, encode func(io.Writer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf, image.NewGray(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestInspectImage(t *testing.T) {
	pngImage := encodeImage(t, func(w io.Writer, m image.Image) error { return png.Encode(w, m) })
	tiffImage := encodeImage(t, func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) })

	tests := []struct {
		name     string
		explicit string
		data     []byte
		want     imageInfo
	}{
		{"explicit wins", "image/webp", pngImage, imageInfo{format: "image/webp", width: 40, height: 20}},
		{"png decoded", "", pngImage, imageInfo{format: "image/png", width: 40, height: 20}},
		{"tiff decoded", "", tiffImage, imageInfo{format: "image/tiff", width: 40, height: 20}},
		{"truncated png sniffed", "", pngHeader, imageInfo{format: "image/png"}},
		{"pdf sniffed", "", []byte("%PDF-1.7\n"), imageInfo{format: "application/pdf"}},
		{"text falls back", "", []byte("hello"), imageInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspectImage(tt.explicit, tt.data); got != tt.want {
				t.Fatalf("inspectImage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractTextReportsDimensions(t *testing.T) {
	provider, svc := newProvider(t, `{"ParsedResults":[{"FileParseExitCode":1,"ParsedText":"x"}]}`)
	img := encodeImage(t, func(w io.Writer, m image.Image) error { return png.Encode(w, m) })

	res, err := provider.ExtractText(context.Background(), img)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if res.ImageWidth != 40 || res.ImageHeight != 20 {
		t.Fatalf("dimensions = %dx%d", res.ImageWidth, res.ImageHeight)
	}
	if !strings.HasPrefix(svc.field("Base64Image"), "data:image/png;base64,") {
		t.Fatalf("unexpected Base64Image prefix: %.40q", svc.field("Base64Image"))
	}

	box := ocr.BoundingBox{X: 10, Y: 5, Width: 20, Height: 10}.Normalize(res.ImageWidth, res.ImageHeight)
	if box.X != 0.25 || box.Y != 0.25 || box.Width != 0.5 || box.Height != 0.5 {
		t.Fatalf("Normalize() = %+v", box)
	}
}
