package conformance

import "fmt"

// Option is a functional option for configuring a Validator.
type Option func(*Validator) error

// WithPathPrefix sets the byte-string prefix stripped from every raw request
// path before contract lookup. A raw path that does not start with the
// prefix is a violation distinct from an undeclared path.
func WithPathPrefix(prefix string) Option {
	return func(v *Validator) error {
		v.pathPrefix = prefix
		return nil
	}
}

// WithMaxBodySize bounds the request/response body capture buffer in bytes.
// A body exceeding the limit is a fatal capture error for the exchange, not
// a violation. Default: DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(v *Validator) error {
		if n < 0 {
			return fmt.Errorf("conformance: maxBodySize cannot be negative")
		}
		v.maxBodySize = n
		return nil
	}
}

// WithReporter routes detected violations to the given reporter. Default is
// SlogReporter over the default logger.
func WithReporter(r Reporter) Option {
	return func(v *Validator) error {
		if r == nil {
			return fmt.Errorf("conformance: reporter cannot be nil")
		}
		v.reporter = r
		return nil
	}
}
