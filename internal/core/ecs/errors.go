package ecs

import "errors"

var (
	// ErrDuplicateTemplate is returned when a config declares the same
	// archetype twice.
	ErrDuplicateTemplate = errors.New("duplicate template")
	// ErrUnknownTemplate is returned when an archetype inherits from a
	// template that was never declared.
	ErrUnknownTemplate = errors.New("unknown parent template")
)
