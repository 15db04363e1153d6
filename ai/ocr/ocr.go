package ocr

import (
	"context"
)

// OCRProvider represents an interface for OCR operations
type OCRProvider interface {
	// ExtractText extracts text from an image
	ExtractText(ctx context.Context, imageData []byte, opts ...Option) (Result, error)

	// ExtractTextFromURL extracts text from an image at the given URL
	ExtractTextFromURL(ctx context.Context, imageURL string, opts ...Option) (Result, error)
}

// Result represents the output of an OCR operation
type Result struct {
	// Text is the extracted text
	Text string

	// Confidence is the overall confidence score (0-1), zero when the provider reports none
	Confidence float32

	// Blocks contains one entry per recognized word when DetailsLevel is "high"
	Blocks []TextBlock

	// Pages is the number of pages the provider processed
	Pages int

	// ImageWidth and ImageHeight are the input dimensions in pixels, zero when unknown
	ImageWidth  int
	ImageHeight int

	// FailedPages lists 1-based pages the provider could not read
	FailedPages []int

	// Usage contains resource usage statistics
	Usage Usage
}

// TextBlock represents a block of text detected in the image
type TextBlock struct {
	// Text is the content of this block
	Text string

	// Confidence is the confidence score for this block (0-1)
	Confidence float32

	// Page is the 1-based page the block was found on
	Page int

	// BoundingBox represents the location of the text in the image (if available)
	BoundingBox BoundingBox
}

// BoundingBox represents the position of text in an image
type BoundingBox struct {
	X      float32 // Left coordinate in pixels
	Y      float32 // Top coordinate in pixels
	Width  float32 // Width in pixels
	Height float32 // Height in pixels
}

// Normalize scales the box to 0-1 relative to an image of the given size.
// A zero dimension returns the box unchanged.
func (b BoundingBox) Normalize(width, height int) BoundingBox {
	if width <= 0 || height <= 0 {
		return b
	}
	w, h := float32(width), float32(height)
	return BoundingBox{X: b.X / w, Y: b.Y / h, Width: b.Width / w, Height: b.Height / h}
}

// Usage represents resource usage statistics for OCR operations
type Usage struct {
	ProcessingTime int // server-side, in milliseconds
	RoundTripTime  int // including upload, in milliseconds
}

// Client represents a configured OCR client
type Client struct {
	provider OCRProvider
}

// NewClient creates a new OCR client
func NewClient(provider OCRProvider) *Client {
	return &Client{provider: provider}
}

// ExtractText extracts text from an image
func (c *Client) ExtractText(ctx context.Context, imageData []byte, opts ...Option) (Result, error) {
	return c.provider.ExtractText(ctx, imageData, opts...)
}

// ExtractTextFromURL extracts text from an image at the given URL
func (c *Client) ExtractTextFromURL(ctx context.Context, imageURL string, opts ...Option) (Result, error) {
	return c.provider.ExtractTextFromURL(ctx, imageURL, opts...)
}
