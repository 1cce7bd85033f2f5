// Package gen holds the two generation passes: named schemas to type
// declarations, and operations to client methods. Both share the recursive
// schema-to-type translator in this file.
package gen

import (
	"fmt"
	"strings"

	"github.com/mark3labs/openapi2ts/internal/naming"
	"github.com/mark3labs/openapi2ts/internal/spec"
	"github.com/mark3labs/openapi2ts/internal/tswriter"
)

// Options selects which fields survive translation of an object graph.
// Readonly=false drops read-only properties (write view), Writeonly=false
// drops write-only properties (read view). AddFilters additionally tags kept
// read/write-only properties with marker types and wraps partial-view
// references in the recursive strip helpers, so filtering also applies
// through named references.
type Options struct {
	Readonly   bool
	Writeonly  bool
	AddFilters bool
}

const (
	readonlyMarker  = "readonlyP"
	writeonlyMarker = "writeonlyP"
	stripReadonly   = "WithoutReadonly"
	stripWriteonly  = "WithoutWriteonly"
)

// Translator converts schema nodes into TypeScript type expressions.
// References resolve against the document; prefix qualifies referenced names
// when the expression lands in a different module (e.g. "Types.").
type Translator struct {
	doc    *spec.Document
	prefix string
}

// NewTranslator returns a translator over doc. prefix may be empty.
func NewTranslator(doc *spec.Document, prefix string) *Translator {
	return &Translator{doc: doc, prefix: prefix}
}

// Translate produces the type expression for node. A nil node translates to
// the unconstrained type.
func (t *Translator) Translate(node *spec.SchemaNode, opts Options) (tswriter.Code, error) {
	if node == nil {
		return tswriter.Text("any"), nil
	}

	switch node.Kind {
	case spec.KindRef:
		return t.translateRef(node, opts)

	case spec.KindAllOf:
		parts, err := t.translateSubs(node.Subs, opts)
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return tswriter.Join(" & ", parts), nil

	case spec.KindOneOf:
		parts, err := t.translateSubs(node.Subs, opts)
		if err != nil {
			return nil, err
		}
		return tswriter.Join(" | ", parts), nil

	case spec.KindArray:
		item, err := t.Translate(node.Items, opts)
		if err != nil {
			return nil, err
		}
		// Parenthesized so union and intersection element types bind
		// before the array suffix.
		return tswriter.Group(tswriter.Text("("), item, tswriter.Text(")[]")), nil

	case spec.KindObject:
		return t.translateObject(node, opts)

	default:
		return t.translatePrimitive(node), nil
	}
}

func (t *Translator) translateSubs(subs []*spec.SchemaNode, opts Options) ([]tswriter.Code, error) {
	parts := make([]tswriter.Code, 0, len(subs))
	for _, sub := range subs {
		c, err := t.Translate(sub, opts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, c)
	}
	return parts, nil
}

// translateRef resolves the reference and emits the qualified name. Partial
// views wrap the reference in the matching strip helper; enum references stay
// bare, since the structural transforms have no keys to filter on an enum and
// wrapping would degrade the type.
func (t *Translator) translateRef(node *spec.SchemaNode, opts Options) (tswriter.Code, error) {
	target, err := t.Resolve(node.Ref)
	if err != nil {
		return nil, err
	}
	qualified := t.prefix + naming.SanitizeIdentifier(node.Ref)
	if target.IsEnum() {
		return tswriter.Text(qualified), nil
	}
	if opts.AddFilters {
		switch {
		case opts.Readonly && !opts.Writeonly:
			return tswriter.Textf("%s%s<%s>", t.prefix, stripWriteonly, qualified), nil
		case opts.Writeonly && !opts.Readonly:
			return tswriter.Textf("%s%s<%s>", t.prefix, stripReadonly, qualified), nil
		}
	}
	return tswriter.Text(qualified), nil
}

// Resolve follows a reference chain to its terminal non-reference schema.
// The visited set bounds traversal; a revisited name is reported as a cycle.
func (t *Translator) Resolve(name string) (*spec.SchemaNode, error) {
	visited := make(map[string]bool)
	chain := []string{}
	cur := name
	for {
		if visited[cur] {
			return nil, &GenError{
				Code:    CircularReference,
				Subject: name,
				Message: fmt.Sprintf("circular reference: %s", strings.Join(append(chain, cur), " -> ")),
			}
		}
		visited[cur] = true
		chain = append(chain, cur)

		node := t.doc.Schema(cur)
		if node == nil {
			return nil, &GenError{
				Code:    UnresolvedReference,
				Subject: name,
				Message: fmt.Sprintf("unresolved reference %q (via %s)", cur, strings.Join(chain, " -> ")),
			}
		}
		if node.Kind != spec.KindRef {
			return node, nil
		}
		cur = node.Ref
	}
}

func (t *Translator) translateObject(node *spec.SchemaNode, opts Options) (tswriter.Code, error) {
	var lines []tswriter.Code
	for _, prop := range node.Properties {
		if prop.ReadOnly && !opts.Readonly {
			continue
		}
		if prop.WriteOnly && !opts.Writeonly {
			continue
		}
		pt, err := t.Translate(prop.Schema, opts)
		if err != nil {
			return nil, err
		}
		if opts.AddFilters && (prop.ReadOnly || prop.WriteOnly) {
			marker := readonlyMarker
			if prop.WriteOnly {
				marker = writeonlyMarker
			}
			pt = tswriter.Group(tswriter.Text("("), pt, tswriter.Text(") & "+t.prefix+marker))
		}
		key := PropertyKey(prop.Name)
		if !prop.Required {
			key += "?"
		}
		lines = append(lines, tswriter.Group(tswriter.Text(key+": "), pt, tswriter.Text(";")))
	}
	if node.AdditionalProperties != nil {
		at, err := t.Translate(node.AdditionalProperties, opts)
		if err != nil {
			return nil, err
		}
		lines = append(lines, tswriter.Group(tswriter.Text("[key: string]: "), at, tswriter.Text(";")))
	}
	if len(lines) == 0 {
		return tswriter.Text("{}"), nil
	}
	return tswriter.Block("{", lines, "}"), nil
}

func (t *Translator) translatePrimitive(node *spec.SchemaNode) tswriter.Code {
	if node.IsEnum() {
		return tswriter.Text(EnumLiteralUnion(node.Enum))
	}

	var base string
	switch node.Type {
	case "boolean":
		base = "boolean"
	case "integer", "number":
		base = "number"
	case "string":
		// Format-specific handling wins over the generic string rule.
		if node.Format == "date" || node.Format == "date-time" {
			base = "Date"
		} else {
			base = "string"
		}
	case "null":
		return tswriter.Text("null")
	default:
		base = "any"
	}
	if node.Nullable {
		base += " | null"
	}
	return tswriter.Text(base)
}

// EnumLiteralUnion renders enum values as a pipe-joined literal union:
// strings quoted, numbers and booleans verbatim.
func EnumLiteralUnion(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Literal(v)
	}
	return strings.Join(parts, " | ")
}

// Literal renders one enum value as TypeScript source.
func Literal(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// IsNumericLiteral reports whether an enum value is a number.
func IsNumericLiteral(v any) bool {
	switch v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// PropertyKey renders an object property name, quoting it when it is not a
// valid bare identifier.
func PropertyKey(name string) string {
	if isBareIdent(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		ok := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}
