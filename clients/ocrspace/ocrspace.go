// Package ocrspace is a client for the OCR.space parse API
// (https://ocr.space/OCRAPI).
//
// A call uploads one image or PDF, either from a file, from memory, or by URL,
// and returns the service reply together with the text of every page:
//
//	client := ocrspace.NewClient(ocrspace.Config{})
//	res, err := client.ParseFromLocalFile(ctx, "invoice.pdf", ocrspace.Options{
//		APIKey:   key,
//		Language: "por",
//	})
//	if err != nil {
//		// errx errors: IsMissingAPIKey, IsFileNotFound, IsTransport, ...
//	}
//	fmt.Println(res.ParsedText)
//
// Pages the service failed on do not fail the call. Their messages are written
// into ParsedText as "Error: <message>" and listed in Result.PageErrors.
package ocrspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExitCode is the per-file status reported in FileParseExitCode
type ExitCode int

const (
	ExitParsed          ExitCode = 1
	ExitFileNotFound    ExitCode = 0
	ExitOCREngineError  ExitCode = -10
	ExitTimeout         ExitCode = -20
	ExitValidationError ExitCode = -30
	ExitUnknownError    ExitCode = -99
)

func (c ExitCode) String() string {
	switch c {
	case ExitParsed:
		return "Parsed successfully"
	case ExitFileNotFound:
		return "File not found"
	case ExitOCREngineError:
		return "OCR engine parse error"
	case ExitTimeout:
		return "Timeout"
	case ExitValidationError:
		return "Validation error"
	case ExitUnknownError:
		return "Unknown error"
	default:
		return fmt.Sprintf("Unrecognized exit code %d", int(c))
	}
}

func (c *ExitCode) UnmarshalJSON(data []byte) error {
	n, err := decodeFlexInt(data)
	if err != nil {
		return fmt.Errorf("exit code: %w", err)
	}
	*c = ExitCode(n)
	return nil
}

// FlexInt accepts a JSON number or a numeric string
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := decodeFlexInt(data)
	if err != nil {
		return err
	}
	*n = FlexInt(v)
	return nil
}

func decodeFlexInt(data []byte) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", data)
	}
	return int(f), nil
}

// Messages holds ErrorMessage/ErrorDetails, which the service sends either as
// a string or as an array of strings
type Messages []string

func (m *Messages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*m = nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = nil
		if s != "" {
			*m = Messages{s}
		}
	case data[0] == '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(Messages, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		*m = out
	default:
		*m = Messages{string(data)}
	}
	return nil
}

func (m Messages) String() string {
	return strings.Join(m, "; ")
}

// Response is the decoded body of a parse call
type Response struct {
	ParsedResults                []ParsedResult `json:"ParsedResults"`
	OCRExitCode                  FlexInt        `json:"OCRExitCode"`
	IsErroredOnProcessing        bool           `json:"IsErroredOnProcessing"`
	ErrorMessage                 Messages       `json:"ErrorMessage"`
	ErrorDetails                 Messages       `json:"ErrorDetails"`
	SearchablePDFURL             string         `json:"SearchablePDFURL"`
	ProcessingTimeInMilliseconds FlexInt        `json:"ProcessingTimeInMilliseconds"`
}

// ParsedResult is one page (or image) of a response
type ParsedResult struct {
	TextOverlay       *TextOverlay `json:"TextOverlay"`
	FileParseExitCode ExitCode     `json:"FileParseExitCode"`
	ParsedText        string       `json:"ParsedText"`
	ErrorMessage      Messages     `json:"ErrorMessage"`
	ErrorDetails      Messages     `json:"ErrorDetails"`
}

// TextOverlay is only filled when Options.IsOverlayRequired is set
type TextOverlay struct {
	Lines      []Line `json:"Lines"`
	HasOverlay bool   `json:"HasOverlay"`
	Message    string `json:"Message"`
}

type Line struct {
	Words     []Word  `json:"Words"`
	MaxHeight float64 `json:"MaxHeight"`
	MinTop    float64 `json:"MinTop"`
}

type Word struct {
	WordText string  `json:"WordText"`
	Left     float64 `json:"Left"`
	Top      float64 `json:"Top"`
	Height   float64 `json:"Height"`
	Width    float64 `json:"Width"`
}

// PageError describes a page the service could not parse
type PageError struct {
	Page     int      `json:"page"`
	ExitCode ExitCode `json:"exitCode"`
	Message  string   `json:"message"`
}

// Result is the normalized outcome of one call
type Result struct {
	// ParsedText joins the text of all pages in order, one page per line block
	ParsedText string

	// OCRParsedResult is the response body exactly as decoded
	OCRParsedResult map[string]any

	// Response is the typed view of OCRParsedResult
	Response *Response

	PageErrors []PageError

	// RequestID is generated per call and attached to logs and errors
	RequestID string
}

// ProcessingTime is the server-side processing time reported by the service
func (r *Result) ProcessingTime() time.Duration {
	if r.Response == nil {
		return 0
	}
	return time.Duration(r.Response.ProcessingTimeInMilliseconds) * time.Millisecond
}

// Succeeded reports whether at least one page was parsed
func (r *Result) Succeeded() bool {
	if r.Response == nil {
		return false
	}
	for _, page := range r.Response.ParsedResults {
		if page.FileParseExitCode == ExitParsed {
			return true
		}
	}
	return false
}

// Err returns a REMOTE_SERVICE_ERROR describing failed pages, or nil
func (r *Result) Err() error {
	if len(r.PageErrors) == 0 {
		return nil
	}
	first := r.PageErrors[0]
	total := 0
	if r.Response != nil {
		total = len(r.Response.ParsedResults)
	}
	return registry.NewWithMessage(ErrRemoteService,
		fmt.Sprintf("%d of %d pages failed, page %d: %s", len(r.PageErrors), total, first.Page, first.Message)).
		WithDetail("requestId", r.RequestID).
		WithDetail("pages", r.PageErrors)
}
