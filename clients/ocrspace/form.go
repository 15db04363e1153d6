package ocrspace

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

const (
	fieldFile        = "file"
	fieldBase64Image = "Base64Image"
	fieldURL         = "url"
)

type formField struct {
	name  string
	value string
}

// source is the single image-carrying field of a request. Exactly one of
// value and file is set.
type source struct {
	kind     string
	field    string
	value    string
	file     io.ReadCloser
	filename string
}

func fileSource(filename string, rc io.ReadCloser) source {
	return source{kind: "file", field: fieldFile, file: rc, filename: filename}
}

func base64Source(data []byte, imageFormat string) source {
	return source{kind: "base64", field: fieldBase64Image, value: dataURI(imageFormat, data)}
}

func urlSource(imageURL string) source {
	return source{kind: "url", field: fieldURL, value: imageURL}
}

// dataURI formats data as data:<format>;base64,<payload>
func dataURI(imageFormat string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", imageFormat, base64.StdEncoding.EncodeToString(data))
}

// MultipartWriter wraps multipart.Writer with convenience methods
type MultipartWriter struct {
	writer *multipart.Writer
}

// NewMultipartWriter creates a new MultipartWriter on w
func NewMultipartWriter(w io.Writer) *MultipartWriter {
	return &MultipartWriter{writer: multipart.NewWriter(w)}
}

// WriteField writes a form field
func (mw *MultipartWriter) WriteField(fieldname, value string) error {
	return mw.writer.WriteField(fieldname, value)
}

// WriteReader streams a file part from r, typed from the filename extension
func (mw *MultipartWriter) WriteReader(fieldname, filename string, r io.Reader) error {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(fieldname), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}

// FormDataContentType returns the Content-Type for the form
func (mw *MultipartWriter) FormDataContentType() string {
	return mw.writer.FormDataContentType()
}

// Close writes the trailing boundary
func (mw *MultipartWriter) Close() error {
	return mw.writer.Close()
}

// writeForm writes the shared fields followed by the source field and closes
// the form. The source file, if any, is always closed.
func writeForm(mw *MultipartWriter, fields []formField, src source) error {
	if src.file != nil {
		defer src.file.Close()
	}

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return err
		}
	}

	if src.file != nil {
		if err := mw.WriteReader(src.field, src.filename, src.file); err != nil {
			return err
		}
	} else if err := mw.WriteField(src.field, src.value); err != nil {
		return err
	}

	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
