package spec

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// BuildDocument converts a loaded OpenAPI v3 document into the internal
// Document. Maps in the kin-openapi model (schemas, paths, properties,
// responses) are walked in sorted key order so repeated runs over the same
// input produce identical output.
func BuildDocument(ctx context.Context, doc *openapi3.T) (*Document, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("spec: nil document")
	}

	d := &Document{index: make(map[string]*SchemaNode)}
	if doc.Info != nil {
		d.Title = strings.TrimSpace(doc.Info.Title)
		d.Version = strings.TrimSpace(doc.Info.Version)
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			node := toNode(doc.Components.Schemas[name])
			if node == nil {
				continue
			}
			d.Schemas = append(d.Schemas, NamedSchema{Name: name, Schema: node})
			d.index[name] = node
		}
	}

	if doc.Paths != nil {
		paths := make([]string, 0, len(doc.Paths))
		for p := range doc.Paths {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			item := doc.Paths[p]
			if item == nil {
				continue
			}
			base := make(map[string]Parameter)
			for _, pref := range item.Parameters {
				if pm, ok := toParameter(pref); ok {
					base[pm.In+":"+pm.Name] = pm
				}
			}

			for _, m := range Methods {
				op := item.GetOperation(strings.ToUpper(string(m)))
				if op == nil {
					continue
				}
				d.Operations = append(d.Operations, toOperation(m, p, op, base))
			}
		}
	}

	return d, nil
}

func toOperation(method HTTPMethod, path string, op *openapi3.Operation, base map[string]Parameter) Operation {
	merged := make(map[string]Parameter, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for _, pref := range op.Parameters {
		if pm, ok := toParameter(pref); ok {
			merged[pm.In+":"+pm.Name] = pm
		}
	}
	params := make([]Parameter, 0, len(merged))
	for _, v := range merged {
		params = append(params, v)
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i].In == params[j].In {
			return params[i].Name < params[j].Name
		}
		return params[i].In < params[j].In
	})

	out := Operation{
		ID:         strings.TrimSpace(op.OperationID),
		Method:     method,
		Path:       path,
		Parameters: params,
	}
	for _, t := range op.Tags {
		if t = strings.TrimSpace(t); t != "" {
			out.Tags = append(out.Tags, t)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		out.RequestBody = toJSONMedia(op.RequestBody.Value.Content)
	}

	if op.Responses != nil {
		codes := make([]string, 0, len(op.Responses))
		for code := range op.Responses {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			rref := op.Responses[code]
			if rref == nil || rref.Value == nil {
				continue
			}
			resp := Response{Status: code}
			if media := toJSONMedia(rref.Value.Content); media != nil {
				resp.HasJSON = media.HasJSON
				resp.Schema = media.Schema
			}
			out.Responses = append(out.Responses, resp)
		}
	}

	return out
}

// toJSONMedia extracts the application/json entry of a content map. The
// result is nil only when the content map itself is empty; a declared body
// without a JSON entry yields HasJSON == false so generation can diagnose it.
func toJSONMedia(content openapi3.Content) *Response {
	if len(content) == 0 {
		return nil
	}
	mt, ok := content["application/json"]
	if !ok || mt == nil {
		return &Response{HasJSON: false}
	}
	return &Response{HasJSON: true, Schema: toNode(mt.Schema)}
}

func toParameter(pref *openapi3.ParameterRef) (Parameter, bool) {
	if pref == nil || pref.Value == nil {
		return Parameter{}, false
	}
	p := pref.Value
	return Parameter{
		Name:     strings.TrimSpace(p.Name),
		In:       strings.TrimSpace(p.In),
		Required: p.Required,
		Schema:   toNode(p.Schema),
	}, true
}

// RefName extracts the schema name from a reference path such as
// "#/components/schemas/Pet".
func RefName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// toNode classifies one kin-openapi schema into the internal tagged union.
// Classification happens here exactly once; unrecognized shapes become the
// unconstrained primitive so translation can fall back to "any".
func toNode(ref *openapi3.SchemaRef) *SchemaNode {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		return &SchemaNode{Kind: KindRef, Ref: RefName(ref.Ref)}
	}
	v := ref.Value
	if v == nil {
		return &SchemaNode{Kind: KindPrimitive}
	}

	node := &SchemaNode{Nullable: v.Nullable}
	if len(v.Enum) > 0 {
		node.Enum = append([]any(nil), v.Enum...)
	}

	switch {
	case len(v.AllOf) > 0:
		node.Kind = KindAllOf
		for _, sub := range v.AllOf {
			if s := toNode(sub); s != nil {
				node.Subs = append(node.Subs, s)
			}
		}
	case len(v.OneOf) > 0 || len(v.AnyOf) > 0:
		// anyOf folds into the union alongside oneOf.
		node.Kind = KindOneOf
		for _, sub := range append(append([]*openapi3.SchemaRef(nil), v.OneOf...), v.AnyOf...) {
			if s := toNode(sub); s != nil {
				node.Subs = append(node.Subs, s)
			}
		}
	case v.Type == "array" || v.Items != nil:
		node.Kind = KindArray
		node.Items = toNode(v.Items)
	case v.Type == "object" || len(v.Properties) > 0:
		node.Kind = KindObject
		required := make(map[string]bool, len(v.Required))
		for _, r := range v.Required {
			required[r] = true
		}
		names := make([]string, 0, len(v.Properties))
		for name := range v.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pref := v.Properties[name]
			prop := Property{
				Name:     name,
				Schema:   toNode(pref),
				Required: required[name],
			}
			if pref != nil && pref.Value != nil {
				prop.ReadOnly = pref.Value.ReadOnly
				prop.WriteOnly = pref.Value.WriteOnly
			}
			node.Properties = append(node.Properties, prop)
		}
		if ap := v.AdditionalProperties.Schema; ap != nil {
			node.AdditionalProperties = toNode(ap)
		}
	default:
		node.Kind = KindPrimitive
		node.Type = strings.TrimSpace(v.Type)
		node.Format = strings.TrimSpace(v.Format)
	}

	return node
}
