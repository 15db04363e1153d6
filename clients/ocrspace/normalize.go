package ocrspace

import (
	"encoding/json"
	"strings"
)

// normalize decodes a 2xx body into a Result. Successful pages contribute their
// text; failed pages contribute "Error: <message>". Segments are separated by a
// newline unless the previous one already ends with one.
func normalize(body []byte, requestID string) (*Result, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, registry.NewWithCause(ErrMalformedResponse, err).
			WithDetail("requestId", requestID).
			WithDetail("body", string(body))
	}

	raw, ok := decoded.(map[string]any)
	if !ok {
		return nil, newError(ErrMalformedResponse, requestID).WithDetail("body", decoded)
	}

	if pages, ok := raw["ParsedResults"]; !ok || pages == nil {
		return nil, newError(ErrMalformedResponse, requestID).WithDetail("body", raw)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, registry.NewWithCause(ErrMalformedResponse, err).
			WithDetail("requestId", requestID).
			WithDetail("body", raw)
	}

	result := &Result{
		OCRParsedResult: raw,
		Response:        &resp,
		RequestID:       requestID,
	}

	var text textAccumulator
	for i, page := range resp.ParsedResults {
		if page.FileParseExitCode == ExitParsed {
			text.add(page.ParsedText)
			continue
		}

		msg := pageErrorMessage(page, &resp)
		result.PageErrors = append(result.PageErrors, PageError{
			Page:     i + 1,
			ExitCode: page.FileParseExitCode,
			Message:  msg,
		})
		text.add("Error: " + msg)
	}
	result.ParsedText = text.String()

	return result, nil
}

// pageErrorMessage picks the most specific message available for a failed page
func pageErrorMessage(page ParsedResult, resp *Response) string {
	for _, m := range []Messages{page.ErrorMessage, page.ErrorDetails, resp.ErrorMessage, resp.ErrorDetails} {
		if s := strings.TrimSpace(m.String()); s != "" {
			return s
		}
	}
	return page.FileParseExitCode.String()
}

type textAccumulator struct {
	b    strings.Builder
	last byte
}

func (t *textAccumulator) add(segment string) {
	if segment == "" {
		return
	}
	if t.b.Len() > 0 && t.last != '\n' {
		t.b.WriteByte('\n')
	}
	t.b.WriteString(segment)
	t.last = segment[len(segment)-1]
}

func (t *textAccumulator) String() string {
	return t.b.String()
}
