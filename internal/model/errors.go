package model

import "errors"

var (
	ErrUnknownComplexity = errors.New("unknown complexity")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrUnknownFeature    = errors.New("unknown feature type")
	ErrUnknownStrategy   = errors.New("unknown duration strategy")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrInvalidComponent  = errors.New("invalid component")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrDuplicateCode     = errors.New("duplicate code")
	ErrNotFound          = errors.New("not found")
)
