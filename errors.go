package xssfilter

import "errors"

var (
	// ErrInvalidWhitelist is returned when a whitelist document cannot be
	// decoded or names an empty tag or attribute.
	ErrInvalidWhitelist = errors.New("xssfilter: invalid whitelist")

	// ErrTokenize wraps failures reported by the HTML tokenizer, such as
	// read errors from the underlying reader.
	ErrTokenize = errors.New("xssfilter: tokenize")
)
