package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

// HCLSequence is the top level of a sequence description file
type HCLSequence struct {
	Name      string         `hcl:"name,optional"`
	Tolerance *float64       `hcl:"tolerance,optional"`
	Labels    *hcl.Attribute `hcl:"labels,optional"`
	Meshes    []HCLMesh      `hcl:"mesh,block"`
	Arrays    []HCLArray     `hcl:"array,block"`
	Fields    []HCLField     `hcl:"field,block"`
	Queries   []HCLQuery     `hcl:"query,block"`
}

// HCLMesh declares a mesh that fields reference by label
type HCLMesh struct {
	Name           string    `hcl:"name,label"`
	SpaceDimension int       `hcl:"space_dimension"`
	Coords         []float64 `hcl:"coords,optional"`
}

// HCLArray declares a value array that fields reference by label
type HCLArray struct {
	Name       string    `hcl:"name,label"`
	Components *int      `hcl:"components,optional"`
	Values     []float64 `hcl:"values"`
}

// HCLField is one time step of the sequence. Blocks are kept in file order.
type HCLField struct {
	Name         string   `hcl:"name,label"`
	Kind         string   `hcl:"kind"`
	Spatial      *string  `hcl:"spatial,optional"`
	Mesh         *string  `hcl:"mesh,optional"`
	Arrays       []string `hcl:"arrays"`
	Start        float64  `hcl:"start"`
	End          *float64 `hcl:"end,optional"`
	Iteration    *int     `hcl:"iteration,optional"`
	Order        *int     `hcl:"order,optional"`
	EndIteration *int     `hcl:"end_iteration,optional"`
	EndOrder     *int     `hcl:"end_order,optional"`
	Tolerance    *float64 `hcl:"tolerance,optional"`
}

// HCLQuery asks the timeline which data applies at a time
type HCLQuery struct {
	ID   string  `hcl:"id,label"`
	At   float64 `hcl:"at"`
	Side *string `hcl:"side,optional"`
}

// ParseHCLSequence parses HCL content and converts it to a sequence.Description
func ParseHCLSequence(hclContent string) (*sequence.Description, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclContent), "sequence.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return parseHCLSequenceFromFile(file)
}

// parseHCLSequenceFromFile decodes an already parsed file, possibly merged
func parseHCLSequenceFromFile(file *hcl.File) (*sequence.Description, error) {
	evalCtx := newEvalContext()

	var hclSeq HCLSequence
	diags := gohcl.DecodeBody(file.Body, evalCtx, &hclSeq)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL body: %s", diags.Error())
	}
	return convertHCLSequence(&hclSeq, evalCtx)
}

// newEvalContext exposes the helpers available inside description files:
//
//	seconds("1m30s")   duration string to float seconds
//	default_tolerance  the time tolerance of a fresh field
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_tolerance": cty.NumberFloatVal(field.DefaultTimeTolerance),
		},
		Functions: map[string]function.Function{
			"seconds": function.New(&function.Spec{
				Params: []function.Parameter{
					{
						Name: "duration",
						Type: cty.String,
					},
				},
				Type: function.StaticReturnType(cty.Number),
				Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
					d, err := time.ParseDuration(args[0].AsString())
					if err != nil {
						return cty.NilVal, fmt.Errorf("invalid duration: %w", err)
					}
					return cty.NumberFloatVal(d.Seconds()), nil
				},
			}),
		},
	}
}

func convertHCLSequence(hclSeq *HCLSequence, evalCtx *hcl.EvalContext) (*sequence.Description, error) {
	desc := &sequence.Description{
		Name:   hclSeq.Name,
		Arrays: make([]sequence.ArraySpec, 0, len(hclSeq.Arrays)),
		Fields: make([]sequence.FieldSpec, 0, len(hclSeq.Fields)),
	}
	if hclSeq.Tolerance != nil {
		desc.Tolerance = *hclSeq.Tolerance
	}

	if hclSeq.Labels != nil {
		labelsVal, diags := hclSeq.Labels.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate labels: %s", diags.Error())
		}
		labels, err := hclValueToStringMap(labelsVal)
		if err != nil {
			return nil, fmt.Errorf("failed to convert labels: %w", err)
		}
		desc.Labels = labels
	}

	for _, m := range hclSeq.Meshes {
		desc.Meshes = append(desc.Meshes, sequence.MeshSpec{
			Name:           m.Name,
			SpaceDimension: m.SpaceDimension,
			Coords:         m.Coords,
		})
	}

	for _, a := range hclSeq.Arrays {
		spec := sequence.ArraySpec{Name: a.Name, Components: 1, Values: a.Values}
		if a.Components != nil {
			spec.Components = *a.Components
		}
		desc.Arrays = append(desc.Arrays, spec)
	}

	for _, f := range hclSeq.Fields {
		spec := sequence.FieldSpec{
			Name:   f.Name,
			Kind:   f.Kind,
			Arrays: f.Arrays,
			Start:  f.Start,
		}
		if f.Spatial != nil {
			spec.Spatial = *f.Spatial
		}
		if f.Mesh != nil {
			spec.Mesh = *f.Mesh
		}
		if f.End != nil {
			spec.End = *f.End
		}
		if f.Iteration != nil {
			spec.Iteration = *f.Iteration
		}
		if f.Order != nil {
			spec.Order = *f.Order
		}
		if f.EndIteration != nil {
			spec.EndIteration = *f.EndIteration
		}
		if f.EndOrder != nil {
			spec.EndOrder = *f.EndOrder
		}
		if f.Tolerance != nil {
			spec.Tolerance = *f.Tolerance
		}
		desc.Fields = append(desc.Fields, spec)
	}

	for _, q := range hclSeq.Queries {
		query := sequence.Query{ID: q.ID, At: q.At}
		if q.Side != nil {
			query.Side = *q.Side
		}
		desc.Queries = append(desc.Queries, query)
	}

	return desc, nil
}

// hclValueToStringMap converts an object or map value to a Go map, converting
// every element to a string
func hclValueToStringMap(val cty.Value) (map[string]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", val.Type().FriendlyName())
	}

	result := make(map[string]string)
	for key, attr := range val.AsValueMap() {
		str, err := convert.Convert(attr, cty.String)
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", key, err)
		}
		if str.IsNull() {
			continue
		}
		result[key] = str.AsString()
	}
	return result, nil
}

// IsHCL attempts to detect if the given content is in HCL format
func IsHCL(content []byte) bool {
	_, diags := hclsyntax.ParseConfig(content, "", hcl.Pos{Line: 1, Column: 1})
	return !diags.HasErrors()
}
