package timeline

import "errors"

var (
	// ErrConstruction reports input that cannot form a valid slice, timeline or field collection.
	ErrConstruction = errors.New("construction error")
	// ErrQuery reports a time value the timeline cannot resolve.
	ErrQuery = errors.New("query error")
)
