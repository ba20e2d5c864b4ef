// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// catalogSchema constrains catalog documents. Definitions are closed, so
// unknown keys are rejected.
const catalogSchema = `
#Source: {
	code: string & !=""
	name?: string
}

#Entry: {
	report_type:   =~"^[a-z0-9_]+$"
	label?:        string
	candidate:     string & !=""
	template:      string & !=""
	file_pattern?: string
}

source:  #Source
entries: [#Entry, ...#Entry]
`

// ValidationError reports a catalog document that does not satisfy the
// catalog schema.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks a decoded catalog document against the catalog schema.
func Validate(doc map[string]any) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(catalogSchema)
	if err := schemaValue.Err(); err != nil {
		return fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return &ValidationError{Message: errors.Details(err, nil), Cause: err}
	}

	unified := schemaValue.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Message: errors.Details(err, nil), Cause: err}
	}
	return nil
}
