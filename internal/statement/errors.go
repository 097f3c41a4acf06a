package statement

import "fmt"

// ParseStage identifies which part of normalization rejected the file. The
// UI picks its remediation from this: a format failure means re-upload, a
// column failure means ask the user to map columns manually.
type ParseStage string

const (
	StageFormat  ParseStage = "format"
	StageColumns ParseStage = "columns"
	StageEmpty   ParseStage = "empty"
)

// ParseError reports a statement file that could not be normalized.
// Individual bad rows are dropped silently; this error only fires when the
// whole file is unusable.
type ParseError struct {
	Stage ParseStage
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing statement (%s): %s", e.Stage, e.Msg)
}

func parseErrf(stage ParseStage, format string, args ...any) *ParseError {
	return &ParseError{Stage: stage, Msg: fmt.Sprintf(format, args...)}
}
