// Package batch evaluates many calculations described in one HCL file.
//
//	language = "de"
//
//	fit "bearing_seat" {
//	  nominal = 40
//	  hole    = "H7"
//	  shaft   = "k6"
//	}
//
//	component "bore" {
//	  nominal = 12.5
//	  grade   = "F8"
//	  role    = "hole"
//	}
package batch

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"isofit/core/engine"
	"isofit/core/iso286"
	"isofit/core/types"
	"isofit/internal/errors"
)

// Kind is the block type of an item
type Kind string

const (
	KindFit       Kind = "fit"
	KindComponent Kind = "component"
)

// Item is one calculation from a batch file
type Item struct {
	Kind    Kind            `json:"kind"`
	Name    string          `json:"name"`
	Nominal decimal.Decimal `json:"nominal"`

	// Hole and Shaft are set for fits
	Hole  string `json:"hole,omitempty"`
	Shaft string `json:"shaft,omitempty"`

	// Grade and the optional Role are set for components
	Grade string     `json:"grade,omitempty"`
	Role  types.Role `json:"role,omitempty"`

	File string `json:"file"`
	Line int    `json:"line"`
}

// Request converts the item into an engine request. An explicit component
// role is applied by writing the grade in that role's case.
func (it Item) Request(lang string) (engine.Request, error) {
	req := engine.Request{Nominal: it.Nominal, Language: lang}

	switch it.Kind {
	case KindFit:
		req.Mode = types.ModeFit
		req.Grade1, req.Grade2 = it.Hole, it.Shaft
	case KindComponent:
		req.Mode = types.ModeSingle
		req.Grade1 = it.Grade
		if it.Role != "" {
			g, err := iso286.ParseGrade(it.Grade)
			if err != nil {
				return engine.Request{}, err
			}
			req.Grade1 = iso286.FormatGrade(it.Role, g.Letters, g.Number)
		}
	default:
		return engine.Request{}, errors.Newf(errors.TypeInput, "unknown item kind %q", it.Kind)
	}
	return req, nil
}

// File is a parsed batch file
type File struct {
	// Language is the optional top-level language preference
	Language string `json:"language,omitempty"`

	Items []Item `json:"items"`
}

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "language"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: string(KindFit), LabelNames: []string{"name"}},
		{Type: string(KindComponent), LabelNames: []string{"name"}},
	},
}

var fitSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "nominal", Required: true},
		{Name: "hole", Required: true},
		{Name: "shaft", Required: true},
	},
}

var componentSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "nominal", Required: true},
		{Name: "grade", Required: true},
		{Name: "role"},
	},
}

// ParseFile reads and parses a batch file from disk
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read batch file %s", path)
	}
	return Parse(src, path)
}

// Parse parses batch source. Blocks are returned in file order; any
// diagnostic error rejects the whole file.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	content, diags := hclFile.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	out := &File{}
	if attr, ok := content.Attributes["language"]; ok {
		lang, err := stringAttr(attr)
		if err != nil {
			return nil, err
		}
		out.Language = lang
	}

	seen := make(map[string]int)
	for _, block := range content.Blocks {
		item, err := parseBlock(block)
		if err != nil {
			return nil, err
		}
		key := block.Type + "." + item.Name
		if prev, dup := seen[key]; dup {
			return nil, errors.Newf(errors.TypeParsing, "%s:%d: duplicate %s %q (first defined on line %d)",
				item.File, item.Line, block.Type, item.Name, prev).WithContext("line", item.Line)
		}
		seen[key] = item.Line
		out.Items = append(out.Items, item)
	}

	if len(out.Items) == 0 {
		return nil, errors.Newf(errors.TypeInput, "%s: no fit or component blocks", filename)
	}
	return out, nil
}

func parseBlock(block *hcl.Block) (Item, error) {
	item := Item{
		Kind: Kind(block.Type),
		Name: block.Labels[0],
		File: block.DefRange.Filename,
		Line: block.DefRange.Start.Line,
	}

	schema := fitSchema
	if item.Kind == KindComponent {
		schema = componentSchema
	}
	content, diags := block.Body.Content(schema)
	if diags.HasErrors() {
		return Item{}, diagError(diags)
	}

	nominal, err := numberAttr(content.Attributes["nominal"])
	if err != nil {
		return Item{}, err
	}
	item.Nominal = nominal

	strs := make(map[string]string, len(content.Attributes))
	for name, attr := range content.Attributes {
		if name == "nominal" {
			continue
		}
		v, err := stringAttr(attr)
		if err != nil {
			return Item{}, err
		}
		strs[name] = v
	}

	switch item.Kind {
	case KindFit:
		item.Hole, item.Shaft = strs["hole"], strs["shaft"]
	case KindComponent:
		item.Grade = strs["grade"]
		if role, ok := strs["role"]; ok {
			item.Role = types.Role(strings.ToLower(role))
			if !item.Role.IsValid() {
				return Item{}, attrError(content.Attributes["role"], fmt.Sprintf("role must be hole or shaft, got %q", role))
			}
		}
	}
	return item, nil
}

// numberAttr evaluates a constant number, accepting numeric strings
func numberAttr(attr *hcl.Attribute) (decimal.Decimal, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, diagError(diags)
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil || num.IsNull() || !num.IsKnown() {
		return decimal.Zero, attrError(attr, fmt.Sprintf("%s must be a number", attr.Name))
	}
	d, err := decimal.NewFromString(num.AsBigFloat().Text('f', -1))
	if err != nil {
		return decimal.Zero, attrError(attr, fmt.Sprintf("%s: %v", attr.Name, err))
	}
	return d, nil
}

func stringAttr(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diagError(diags)
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", attrError(attr, fmt.Sprintf("%s must be a string", attr.Name))
	}
	return strings.TrimSpace(val.AsString()), nil
}

func attrError(attr *hcl.Attribute, msg string) error {
	return errors.Newf(errors.TypeParsing, "%s:%d: %s", attr.Range.Filename, attr.Range.Start.Line, msg).
		WithContext("line", attr.Range.Start.Line)
}

// diagError reports the first error diagnostic with its position
func diagError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		file := ""
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
			file = diag.Subject.Filename
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		return errors.Wrapf(errors.TypeParsing, diags, "%s:%d: %s", file, line, msg).
			WithContext("line", line)
	}
	return errors.Parsing("invalid batch file", diags)
}
