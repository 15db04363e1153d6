package validatex

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// ValidationFunc defines a function that validates a value
type ValidationFunc func(value any, param string) bool

var builtinValidationFuncs = map[string]ValidationFunc{
	"required": validateRequired,
	"url":      validateURL,
	"min":      validateMin,
	"max":      validateMax,
	"oneof":    validateOneOf,
	"regex":    validateRegex,
}

var (
	customMu              sync.RWMutex
	customValidationFuncs = map[string]ValidationFunc{}
)

// RegisterValidationFunc registers a custom validation function
func RegisterValidationFunc(name string, fn ValidationFunc) {
	customMu.Lock()
	defer customMu.Unlock()
	customValidationFuncs[name] = fn
}

func getValidationFunc(name string) (ValidationFunc, bool) {
	customMu.RLock()
	fn, ok := customValidationFuncs[name]
	customMu.RUnlock()
	if ok {
		return fn, true
	}
	fn, ok = builtinValidationFuncs[name]
	return fn, ok
}

func validateRequired(value any, _ string) bool {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return !isZero(value)
}

// validateURL accepts absolute http(s) URLs with a host
func validateURL(value any, _ string) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}
	u, err := url.ParseRequestURI(str)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateMin(value any, param string) bool {
	n, ok := measure(value)
	if !ok {
		return false
	}
	limit, err := strconv.ParseFloat(param, 64)
	return err == nil && n >= limit
}

func validateMax(value any, param string) bool {
	n, ok := measure(value)
	if !ok {
		return false
	}
	limit, err := strconv.ParseFloat(param, 64)
	return err == nil && n <= limit
}

// measure returns a number for numeric kinds and a length for strings and collections
func measure(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// validateOneOf validates that a value is one of a space separated list
func validateOneOf(value any, param string) bool {
	str := fmt.Sprintf("%v", value)
	for _, allowed := range strings.Fields(param) {
		if allowed == str {
			return true
		}
	}
	return false
}

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

func validateRegex(value any, param string) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}

	regexMu.Lock()
	re, cached := regexCache[param]
	if !cached {
		var err error
		re, err = regexp.Compile(param)
		if err != nil {
			regexMu.Unlock()
			return false
		}
		regexCache[param] = re
	}
	regexMu.Unlock()

	return re.MatchString(str)
}
