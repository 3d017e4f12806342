package domain

import "errors"

var (
	// ErrEmptyInput is returned when a text has no extractable sentence.
	ErrEmptyInput = errors.New("no sentences found in input")
	// ErrInsufficientContent is returned when a document is too short for the requested output.
	ErrInsufficientContent = errors.New("insufficient content")
	// ErrInputTooLarge is returned when a document exceeds the sentence ceiling of an iterative algorithm.
	ErrInputTooLarge = errors.New("input too large")
	// ErrInvalidArgument is returned for out-of-range caller options.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownAlgorithm is returned for an algorithm name outside the supported set.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
