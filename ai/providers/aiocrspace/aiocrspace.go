// Package aiocrspace implements ocr.OCRProvider on the OCR.space parse API.
package aiocrspace

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Abraxas-365/ocrspace/ai/ocr"
	"github.com/Abraxas-365/ocrspace/clients/ocrspace"
)

// OCRSpaceProvider implements the OCR interface for OCR.space
type OCRSpaceProvider struct {
	client   *ocrspace.Client
	apiKey   string
	endpoint string
}

// ProviderOption configures an OCRSpaceProvider
type ProviderOption func(*OCRSpaceProvider)

// WithClient uses an already configured ocrspace client
func WithClient(client *ocrspace.Client) ProviderOption {
	return func(p *OCRSpaceProvider) {
		p.client = client
	}
}

// WithEndpoint overrides the parse endpoint
func WithEndpoint(endpoint string) ProviderOption {
	return func(p *OCRSpaceProvider) {
		p.endpoint = endpoint
	}
}

// NewOCRSpaceProvider creates a new OCR.space provider. An empty apiKey falls
// back to OCRSPACE_API_KEY.
func NewOCRSpaceProvider(apiKey string, opts ...ProviderOption) *OCRSpaceProvider {
	if apiKey == "" {
		apiKey = os.Getenv("OCRSPACE_API_KEY")
	}

	p := &OCRSpaceProvider{apiKey: apiKey}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = ocrspace.NewClient(ocrspace.Config{})
	}
	return p
}

func (p *OCRSpaceProvider) ExtractText(ctx context.Context, imageData []byte, opts ...ocr.Option) (ocr.Result, error) {
	options := ocr.Apply(opts...)

	info := inspectImage(options.ImageFormat, imageData)
	reqOpts := p.requestOptions(options)
	reqOpts.ImageFormat = info.format

	start := time.Now()
	res, err := p.client.ParseImageData(ctx, imageData, reqOpts)
	if err != nil {
		return ocr.Result{}, err
	}

	result, err := toResult(res, options, time.Since(start))
	if err != nil {
		return ocr.Result{}, err
	}
	result.ImageWidth, result.ImageHeight = info.width, info.height
	return result, nil
}

func (p *OCRSpaceProvider) ExtractTextFromURL(ctx context.Context, imageURL string, opts ...ocr.Option) (ocr.Result, error) {
	options := ocr.Apply(opts...)

	start := time.Now()
	res, err := p.client.ParseImageFromURL(ctx, imageURL, p.requestOptions(options))
	if err != nil {
		return ocr.Result{}, err
	}
	return toResult(res, options, time.Since(start))
}

func (p *OCRSpaceProvider) requestOptions(options *ocr.OCROptions) ocrspace.Options {
	return ocrspace.Options{
		APIKey:            p.apiKey,
		Language:          options.Language,
		IsOverlayRequired: options.DetailsLevel == ocr.DetailsHigh,
		URL:               p.endpoint,
		OCREngine:         options.Engine,
		DetectOrientation: options.DetectOrientation,
	}
}

type imageInfo struct {
	format        string
	width, height int
}

// inspectImage prefers an explicit format, then the decoded header, then the
// sniffed content type. An empty format leaves the client default in place.
func inspectImage(explicit string, data []byte) imageInfo {
	var info imageInfo
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		info = imageInfo{format: "image/" + name, width: cfg.Width, height: cfg.Height}
	} else if mediaType, _, perr := mime.ParseMediaType(http.DetectContentType(data)); perr == nil &&
		(strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf") {
		info.format = mediaType
	}

	if explicit != "" {
		info.format = explicit
	}
	return info
}

// toResult fails only when no page could be read
func toResult(res *ocrspace.Result, options *ocr.OCROptions, elapsed time.Duration) (ocr.Result, error) {
	pages := 0
	if res.Response != nil {
		pages = len(res.Response.ParsedResults)
	}
	if pages > 0 && !res.Succeeded() {
		return ocr.Result{}, res.Err()
	}

	result := ocr.Result{
		Text:  res.ParsedText,
		Pages: pages,
		Usage: ocr.Usage{
			ProcessingTime: int(res.ProcessingTime().Milliseconds()),
			RoundTripTime:  int(elapsed.Milliseconds()),
		},
	}
	for _, pe := range res.PageErrors {
		result.FailedPages = append(result.FailedPages, pe.Page)
	}

	if options.DetailsLevel == ocr.DetailsHigh && res.Response != nil {
		result.Blocks = wordBlocks(res.Response.ParsedResults)
	}

	return result, nil
}

func wordBlocks(pages []ocrspace.ParsedResult) []ocr.TextBlock {
	var blocks []ocr.TextBlock
	for i, page := range pages {
		if page.TextOverlay == nil {
			continue
		}
		for _, line := range page.TextOverlay.Lines {
			for _, w := range line.Words {
				blocks = append(blocks, ocr.TextBlock{
					Text: w.WordText,
					Page: i + 1,
					BoundingBox: ocr.BoundingBox{
						X:      float32(w.Left),
						Y:      float32(w.Top),
						Width:  float32(w.Width),
						Height: float32(w.Height),
					},
				})
			}
		}
	}
	return blocks
}
