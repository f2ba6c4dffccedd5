package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	File    string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE evaluates a .cue file, or the CUE package in a directory, and
// decodes its top-level nodes and edges.
//
// The value must be concrete. Edges missing a condition are reported
// with their CUE position before decoding.
func LoadCUE(path string) (*Document, error) {
	v, err := buildCUE(path)
	if err != nil {
		return nil, err
	}
	return CompileCUE(v)
}

// CompileCUE decodes an already built CUE value.
func CompileCUE(v cue.Value) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	if err := checkEdgeConditions(v); err != nil {
		return nil, err
	}

	// Round-trip through JSON so that conditions decode into the same
	// plain data YAML input produces.
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return ParseYAML(data, v.Pos().Filename())
}

func buildCUE(path string) (cue.Value, error) {
	ctx := cuecontext.New()

	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("load %s: %w", path, err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("load %s: %w", path, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return cue.Value{}, &CompileError{Field: "cue", Message: "no CUE instances loaded", File: path}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, formatCUEError(inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

func checkEdgeConditions(v cue.Value) error {
	edges := v.LookupPath(cue.ParsePath("edges"))
	if !edges.Exists() {
		return nil
	}
	iter, err := edges.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		edge := iter.Value()
		if !edge.LookupPath(cue.ParsePath("condition")).Exists() {
			return &CompileError{
				Field:   fmt.Sprintf("edges[%d].condition", i),
				Message: "condition is required",
				Pos:     edge.Pos(),
			}
		}
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
