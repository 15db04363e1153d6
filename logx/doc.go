// Package logx provides levelled logging configured from the environment.
//
// Environment Variables:
//   - LOG_LEVEL: minimum level (TRACE, DEBUG, INFO, WARN, ERROR, OFF), default INFO
//   - LOG_FORMAT: console or json, default console
//   - LOG_COLOR: colored level names in console output (true/false, default: true)
//   - LOG_CALLER: file:line of the call site (true/false, default: true)
//
// Basic Usage:
//
//	logx.Debug("OCR.space request %s: POST %s", requestID, endpoint)
//	logx.Warn("page %d failed: %s", page, msg)
//
// At DEBUG and TRACE, struct and map arguments are rendered as indented JSON in console
// output and embedded under "data" in json output. DebugStruct logs a single named value.
package logx
