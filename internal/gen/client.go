package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/openapi2ts/internal/naming"
	"github.com/mark3labs/openapi2ts/internal/spec"
	"github.com/mark3labs/openapi2ts/internal/tswriter"
)

// ClientOptions controls the client generation pass.
type ClientOptions struct {
	// ClassName names the generated client class; defaults to "Client".
	ClassName string
	// RemoveTagFromOperationID strips the tag name (case-insensitively) out
	// of the exposed accessor keys.
	RemoveTagFromOperationID bool
	// WithFilters translates request bodies as write views and responses as
	// read views using the strip helpers from the types module. Only valid
	// when the type pass ran with AddReadonlyWriteonlyModifiers.
	WithFilters bool
}

// typesPrefix qualifies schema references from the client module.
const typesPrefix = "Types."

// pickHelper is emitted verbatim; the generated methods use it to partition
// the params object into header and query buckets at runtime.
const pickHelper = `function pick<T extends object, K extends keyof T>(obj: T, ...keys: K[]): Pick<T, K> {
  const picked = {} as Pick<T, K>;
  for (const key of keys) {
    picked[key] = obj[key];
  }
  return picked;
}
`

var pathParamRe = regexp.MustCompile(`\{([^}]+)\}`)

// GenerateClient walks the document's operations and registers the client
// class on file: one private method per operation with an operationId and at
// least one response, plus one public accessor per tag bundling bound
// references to that tag's methods.
func GenerateClient(file *tswriter.File, doc *spec.Document, opts ClientOptions) error {
	className := strings.TrimSpace(opts.ClassName)
	if className == "" {
		className = "Client"
	}

	file.Import(`import axios, { AxiosInstance, AxiosRequestConfig } from "axios";`)
	file.Import(`import * as Types from "./types";`)
	file.Raw(pickHelper)

	tr := NewTranslator(doc, typesPrefix)

	class := &tswriter.Class{
		Name:   className,
		Export: true,
		Properties: []tswriter.ClassProperty{
			{Name: "client", Private: true, Type: tswriter.Text("AxiosInstance")},
		},
		Constructor: &tswriter.Method{
			Params: []tswriter.Param{
				{Name: "config", Type: tswriter.Text("AxiosRequestConfig"), Optional: true},
			},
			Body: []tswriter.Code{tswriter.Text("this.client = axios.create(config);")},
		},
	}

	type entry struct {
		exposed string
		method  string
	}
	var tagOrder []string
	tagMethods := make(map[string][]entry)

	for _, op := range doc.Operations {
		if op.ID == "" || len(op.Responses) == 0 {
			continue
		}
		methodName := naming.CamelCase(op.ID)

		method, err := buildMethod(tr, op, methodName, opts)
		if err != nil {
			return err
		}
		class.Methods = append(class.Methods, method)

		tags := op.Tags
		if len(tags) == 0 {
			tags = []string{"default"}
		}
		for _, tag := range tags {
			exposed := methodName
			if opts.RemoveTagFromOperationID {
				exposed = naming.StripTag(methodName, tag)
			}
			if _, seen := tagMethods[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagMethods[tag] = append(tagMethods[tag], entry{exposed: exposed, method: methodName})
		}
	}

	for _, tag := range tagOrder {
		var lines []tswriter.Code
		for _, e := range tagMethods[tag] {
			lines = append(lines, tswriter.Textf("%s: this.%s.bind(this),", PropertyKey(e.exposed), e.method))
		}
		class.Accessors = append(class.Accessors, &tswriter.Accessor{
			Name: naming.SanitizeIdentifier(tag),
			Body: []tswriter.Code{tswriter.Block("return {", lines, "};")},
		})
	}

	file.Class(class)
	return nil
}

// buildMethod synthesizes one private client method: a params object typed
// from the declared parameters, an optional data parameter for payload
// methods, a trailing passthrough config, and a single transport call.
func buildMethod(tr *Translator, op spec.Operation, methodName string, opts ClientOptions) (*tswriter.Method, error) {
	success := op.Responses[0]
	if !success.HasJSON {
		return nil, &GenError{
			Code:    MissingContent,
			Subject: op.ID,
			Message: fmt.Sprintf("operation %s: response %s declares no application/json content", op.ID, success.Status),
		}
	}
	respType, err := tr.Translate(success.Schema, Options{Readonly: true, AddFilters: opts.WithFilters})
	if err != nil {
		return nil, fmt.Errorf("operation %s: response: %w", op.ID, err)
	}

	var paramLines []tswriter.Code
	var headerNames, queryNames []string
	for _, p := range op.Parameters {
		pt, err := tr.Translate(p.Schema, Options{Readonly: true, Writeonly: true})
		if err != nil {
			return nil, fmt.Errorf("operation %s: parameter %s: %w", op.ID, p.Name, err)
		}
		key := PropertyKey(p.Name)
		if !p.Required {
			key += "?"
		}
		paramLines = append(paramLines, tswriter.Group(tswriter.Text(key+": "), pt, tswriter.Text(";")))

		switch p.In {
		case "header":
			headerNames = append(headerNames, p.Name)
		case "query":
			queryNames = append(queryNames, p.Name)
		}
	}
	paramsType := tswriter.Code(tswriter.Text("{}"))
	if len(paramLines) > 0 {
		paramsType = tswriter.Block("{", paramLines, "}")
	}

	params := []tswriter.Param{{Name: "params", Type: paramsType}}
	hasData := false
	if op.Method.HasBody() && op.RequestBody != nil {
		if !op.RequestBody.HasJSON {
			return nil, &GenError{
				Code:    MissingContent,
				Subject: op.ID,
				Message: fmt.Sprintf("operation %s: request body declares no application/json content", op.ID),
			}
		}
		dataType, err := tr.Translate(op.RequestBody.Schema, Options{Writeonly: true, AddFilters: opts.WithFilters})
		if err != nil {
			return nil, fmt.Errorf("operation %s: request body: %w", op.ID, err)
		}
		params = append(params, tswriter.Param{Name: "data", Type: dataType})
		hasData = true
	}
	params = append(params, tswriter.Param{Name: "options", Type: tswriter.Text("AxiosRequestConfig"), Optional: true})

	dataArg := ""
	if hasData {
		dataArg = ", data"
	}
	stmt := tswriter.Group(
		tswriter.Textf("return this.client.%s<", op.Method),
		respType,
		tswriter.Textf(">(`%s`%s, { ...{ headers: %s, params: %s }, ...options });",
			pathTemplate(op.Path), dataArg, pickExpr(headerNames), pickExpr(queryNames)),
	)

	return &tswriter.Method{
		Name:    methodName,
		Private: true,
		Params:  params,
		Body:    []tswriter.Code{stmt},
	}, nil
}

// pathTemplate substitutes every {name} placeholder with a template-literal
// lookup of the corresponding params entry.
func pathTemplate(path string) string {
	return pathParamRe.ReplaceAllStringFunc(path, func(m string) string {
		name := m[1 : len(m)-1]
		return fmt.Sprintf("${params[%q]}", name)
	})
}

// pickExpr renders the runtime extraction of one parameter bucket; an empty
// bucket collapses to an empty object literal.
func pickExpr(names []string) string {
	if len(names) == 0 {
		return "{}"
	}
	return fmt.Sprintf("pick(params, %s)", naming.PickList(names))
}
