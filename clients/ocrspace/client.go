package ocrspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/ocrspace/errx"
	"github.com/Abraxas-365/ocrspace/fsx"
	"github.com/Abraxas-365/ocrspace/fsx/localfs"
	"github.com/Abraxas-365/ocrspace/logx"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is copied into error details
	maxErrorBody = 2048
)

// Client sends parse requests to OCR.space. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	fs         fsx.FileSystem
}

// Config holds configuration for the OCR.space client
type Config struct {
	Timeout time.Duration `json:"timeout"`

	// HTTPClient replaces the default client; Timeout is ignored when set
	HTTPClient *http.Client `json:"-"`

	// FileSystem resolves paths for ParseFromLocalFile; defaults to the local disk
	FileSystem fsx.FileSystem `json:"-"`
}

// NewClient creates a new OCR.space client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	if config.FileSystem == nil {
		config.FileSystem = localfs.New("")
	}

	return &Client{
		httpClient: config.HTTPClient,
		fs:         config.FileSystem,
	}
}

var defaultClient = NewClient(Config{})

// ParseFromLocalFile parses a file from the local disk with a default client
func ParseFromLocalFile(ctx context.Context, path string, opts Options) (*Result, error) {
	return defaultClient.ParseFromLocalFile(ctx, path, opts)
}

// ParseImageFromURL parses a remote image with a default client
func ParseImageFromURL(ctx context.Context, imageURL string, opts Options) (*Result, error) {
	return defaultClient.ParseImageFromURL(ctx, imageURL, opts)
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetFileSystem changes where ParseFromLocalFile reads from
func (c *Client) SetFileSystem(fs fsx.FileSystem) {
	c.fs = fs
}

// ParseFromLocalFile uploads the file at path. PDFs are streamed as the "file"
// part; PNG and JPEG images are sent inline as a Base64Image data URI.
func (c *Client) ParseFromLocalFile(ctx context.Context, path string, opts Options) (*Result, error) {
	requestID := uuid.NewString()

	opts, err := opts.prepare(requestID)
	if err != nil {
		return nil, err
	}

	src, err := c.openSource(ctx, requestID, path, opts)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, requestID, opts, src)
}

// ParseImageFromURL asks the service to fetch and parse imageURL
func (c *Client) ParseImageFromURL(ctx context.Context, imageURL string, opts Options) (*Result, error) {
	requestID := uuid.NewString()

	opts, err := opts.prepare(requestID)
	if err != nil {
		return nil, err
	}

	imageURL = strings.TrimSpace(imageURL)
	if u, perr := url.ParseRequestURI(imageURL); perr != nil || u.Host == "" {
		return nil, registry.NewWithMessage(ErrInvalidOptions, "A valid image URL is required").
			WithDetail("requestId", requestID).
			WithDetail("url", imageURL)
	}

	return c.send(ctx, requestID, opts, urlSource(imageURL))
}

// ParseImageData sends image bytes inline as a Base64Image data URI
func (c *Client) ParseImageData(ctx context.Context, data []byte, opts Options) (*Result, error) {
	requestID := uuid.NewString()

	opts, err := opts.prepare(requestID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, registry.NewWithMessage(ErrInvalidOptions, "Image data is empty").
			WithDetail("requestId", requestID)
	}

	return c.send(ctx, requestID, opts, base64Source(data, opts.ImageFormat))
}

// openSource checks existence before the extension, matching the order callers see errors in
func (c *Client) openSource(ctx context.Context, requestID, path string, opts Options) (source, error) {
	if strings.TrimSpace(path) == "" {
		return source{}, registry.NewWithMessage(ErrFileNotFound, "File not found: path is empty").
			WithDetail("requestId", requestID)
	}

	exists, err := c.fs.Exists(ctx, path)
	if err != nil {
		return source{}, registry.NewWithCause(ErrFileRead, err).
			WithDetail("requestId", requestID).
			WithDetail("path", path)
	}
	if !exists {
		return source{}, registry.NewWithMessage(ErrFileNotFound, "File not found: "+path).
			WithDetail("requestId", requestID).
			WithDetail("path", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		rc, err := c.fs.ReadFileStream(ctx, path)
		if err != nil {
			return source{}, registry.NewWithCause(ErrFileRead, err).
				WithDetail("requestId", requestID).
				WithDetail("path", path)
		}
		return fileSource(filepath.Base(path), rc), nil

	case ".png", ".jpg", ".jpeg":
		data, err := c.fs.ReadFile(ctx, path)
		if err != nil {
			return source{}, registry.NewWithCause(ErrFileRead, err).
				WithDetail("requestId", requestID).
				WithDetail("path", path)
		}
		return base64Source(data, opts.ImageFormat), nil

	default:
		return source{}, newError(ErrUnsupportedFileType, requestID).
			WithDetail("path", path).
			WithDetail("extension", ext)
	}
}

// send streams the form through a pipe so PDF uploads are never held in memory
func (c *Client) send(ctx context.Context, requestID string, opts Options, src source) (*Result, error) {
	pr, pw := io.Pipe()
	mw := NewMultipartWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, opts.formFields(), src))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, registry.NewWithCause(ErrTransport, err).
			WithDetail("requestId", requestID).
			WithDetail("url", opts.URL)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	logx.Debug("OCR.space request %s: POST %s source=%s language=%s apikey=%s",
		requestID, opts.URL, src.kind, opts.Language, opts.MaskedAPIKey())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(requestID, opts.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(requestID, opts.URL, err).WithDetail("statusCode", resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return nil, c.handleHTTPError(requestID, resp.StatusCode, body)
	}

	result, err := normalize(body, requestID)
	if err != nil {
		logx.Warn("OCR.space request %s: %s", requestID, err.Error())
		return nil, err
	}

	for _, pe := range result.PageErrors {
		logx.Warn("OCR.space request %s: page %d failed (%d): %s", requestID, pe.Page, int(pe.ExitCode), pe.Message)
	}
	logx.Debug("OCR.space request %s completed in %s (%d pages, server %s)",
		requestID, time.Since(start).Round(time.Millisecond), len(result.Response.ParsedResults), result.ProcessingTime())

	return result, nil
}

func transportError(requestID, endpoint string, err error) *errx.Error {
	xerr := registry.NewWithCause(ErrTransport, err).
		WithDetail("requestId", requestID).
		WithDetail("url", endpoint)

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		xerr.WithDetail("timeout", true)
	}
	return xerr
}

// handleHTTPError converts a non-2xx reply into a TRANSPORT_ERROR. The service
// answers some failures with a bare JSON string and others with an object.
func (c *Client) handleHTTPError(requestID string, statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		switch v := decoded.(type) {
		case string:
			message = v
		case map[string]any:
			var resp Response
			if json.Unmarshal(body, &resp) == nil && len(resp.ErrorMessage) > 0 {
				message = resp.ErrorMessage.String()
			}
		}
	}

	if len(message) > maxErrorBody {
		message = message[:maxErrorBody]
	}

	xerr := registry.NewWithMessage(ErrTransport, fmt.Sprintf("OCR.space returned HTTP %d", statusCode)).
		WithDetail("requestId", requestID).
		WithDetail("statusCode", statusCode).
		WithDetail("response", message)
	xerr.HTTPStatus = statusCode
	return xerr
}
