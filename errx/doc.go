/*
Package errx provides the structured error type shared by every package in this module.
Errors carry a type, a registry-scoped code, free-form details and the HTTP status that
best describes them.

# Registries

Each package declares its errors once, with a prefix:

	var (
		registry = errx.NewRegistry("OCRSPACE")

		ErrMissingAPIKey = registry.Register("MISSING_API_KEY", errx.TypeValidation, http.StatusBadRequest, "API key required")
	)

	err := registry.New(ErrMissingAPIKey).WithDetail("requestId", id)

Callers branch on codes or types rather than on message text:

	if errx.IsCode(err, ocrspace.ErrFileNotFound) {
		// ...
	}

# Wrapping

Registry.NewWithCause and Wrap keep the original error reachable through errors.Is and
errors.As:

	resp, err := httpClient.Do(req)
	if err != nil {
		return registry.NewWithCause(ErrTransport, err)
	}

Print renders an error and its details on a single line for logs.
*/
package errx
