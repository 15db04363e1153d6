package ocrspace

import (
	"net/http"

	"github.com/Abraxas-365/ocrspace/errx"
)

var (
	registry = errx.NewRegistry("OCRSPACE")

	ErrMissingAPIKey       = registry.Register("MISSING_API_KEY", errx.TypeValidation, http.StatusBadRequest, "API key required")
	ErrInvalidOptions      = registry.Register("INVALID_OPTIONS", errx.TypeValidation, http.StatusBadRequest, "Invalid request options")
	ErrFileNotFound        = registry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	ErrFileRead            = registry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
	ErrUnsupportedFileType = registry.Register("UNSUPPORTED_FILE_TYPE", errx.TypeValidation, http.StatusUnsupportedMediaType, "Filetype not supported")
	ErrTransport           = registry.Register("TRANSPORT_ERROR", errx.TypeExternal, http.StatusBadGateway, "Request to OCR.space failed")
	ErrMalformedResponse   = registry.Register("MALFORMED_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Malformed OCR.space response")
	ErrRemoteService       = registry.Register("REMOTE_SERVICE_ERROR", errx.TypeExternal, http.StatusBadGateway, "OCR.space could not parse the file")
)

func IsMissingAPIKey(err error) bool {
	return errx.IsCode(err, ErrMissingAPIKey)
}

func IsFileNotFound(err error) bool {
	return errx.IsCode(err, ErrFileNotFound)
}

func IsUnsupportedFileType(err error) bool {
	return errx.IsCode(err, ErrUnsupportedFileType)
}

func IsTransport(err error) bool {
	return errx.IsCode(err, ErrTransport)
}

func IsMalformedResponse(err error) bool {
	return errx.IsCode(err, ErrMalformedResponse)
}

func IsRemoteService(err error) bool {
	return errx.IsCode(err, ErrRemoteService)
}

// newError creates a registered error tagged with the request it belongs to
func newError(code errx.Code, requestID string) *errx.Error {
	return registry.New(code).WithDetail("requestId", requestID)
}
