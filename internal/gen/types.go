package gen

import (
	"fmt"

	"github.com/mark3labs/openapi2ts/internal/naming"
	"github.com/mark3labs/openapi2ts/internal/spec"
	"github.com/mark3labs/openapi2ts/internal/tswriter"
)

// TypesOptions controls the type generation pass.
type TypesOptions struct {
	// AddReadonlyWriteonlyModifiers emits the marker types and recursive
	// strip helpers, and tags read/write-only properties with the markers so
	// partial views can filter them structurally.
	AddReadonlyWriteonlyModifiers bool
}

// filterHelpers is the mapped-type machinery behind read/write views. The
// markers are zero-cost tags intersected onto filtered properties; the strip
// transforms rebuild object types from the untagged key subset, pass leaf
// values through unchanged, and map arrays element-wise.
const filterHelpers = `export type readonlyP = { readonly __readonly?: true };
export type writeonlyP = { readonly __writeonly?: true };

type Leaf = Date | Function | Symbol | string | number | boolean | undefined | null;

type FilteredKeys<T, M> = { [K in keyof T]: T[K] extends M ? never : K }[keyof T];

export type WithoutReadonly<T> = T extends Leaf
  ? T
  : T extends (infer E)[]
  ? WithoutReadonly<E>[]
  : { [K in FilteredKeys<T, readonlyP>]: WithoutReadonly<T[K]> };

export type WithoutWriteonly<T> = T extends Leaf
  ? T
  : T extends (infer E)[]
  ? WithoutWriteonly<E>[]
  : { [K in FilteredKeys<T, writeonlyP>]: WithoutWriteonly<T[K]> };
`

// GenerateTypes walks the document's named schemas and registers one exported
// declaration per schema on file: an enum for string-enum schemas, a
// literal-union alias for numeric-enum schemas, and a type alias for
// everything else.
func GenerateTypes(file *tswriter.File, doc *spec.Document, opts TypesOptions) error {
	if opts.AddReadonlyWriteonlyModifiers {
		file.Raw(filterHelpers)
	}

	tr := NewTranslator(doc, "")
	for _, ns := range doc.Schemas {
		name := naming.SanitizeIdentifier(ns.Name)
		node := ns.Schema

		if node.IsEnum() && node.Kind == spec.KindPrimitive {
			if IsNumericLiteral(node.Enum[0]) {
				// Literal numeric enum members would need extra syntax, so
				// numeric enums become a union-of-literals alias; a single
				// member degenerates to that literal alone.
				file.TypeAlias(name, true, tswriter.Text(EnumLiteralUnion(node.Enum)))
				continue
			}
			if node.Type == "string" {
				file.Enum(name, true, enumMembers(node.Enum))
				continue
			}
			file.TypeAlias(name, true, tswriter.Text(EnumLiteralUnion(node.Enum)))
			continue
		}

		code, err := tr.Translate(node, Options{
			Readonly:   true,
			Writeonly:  true,
			AddFilters: opts.AddReadonlyWriteonlyModifiers,
		})
		if err != nil {
			return fmt.Errorf("schema %s: %w", ns.Name, err)
		}
		file.TypeAlias(name, true, code)
	}
	return nil
}

func enumMembers(values []any) []tswriter.EnumMember {
	members := make([]tswriter.EnumMember, 0, len(values))
	for _, v := range values {
		s := fmt.Sprintf("%v", v)
		members = append(members, tswriter.EnumMember{
			Name:  naming.EnumMemberName(s),
			Value: Literal(v),
		})
	}
	return members
}
