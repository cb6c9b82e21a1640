package extract

import "errors"

var (
	// ErrInvalidURL indicates a malformed URL or a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates a URL resolving to a non-public address.
	ErrPrivateIP = errors.New("URL resolves to private IP address")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates a response larger than the configured limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the fetch did not finish within the configured timeout.
	ErrTimeout = errors.New("request timeout")
)
