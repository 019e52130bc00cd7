package pipeline

import "errors"

var (
	// ErrTemplateBind indicates the template declares merge points outside the
	// schema, or the bound document could not be produced. Fatal for the run.
	ErrTemplateBind = errors.New("template bind failed")
	// ErrInvalidState indicates the state bag is missing a required entry.
	ErrInvalidState = errors.New("invalid pipeline state")
)
