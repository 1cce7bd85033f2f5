// Package tsemitter renders the generated TypeScript client as a complete
// npm package: types and client sources from the two generation passes, plus
// the package scaffolding around them.
package tsemitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/openapi2ts/internal/gen"
	genspec "github.com/mark3labs/openapi2ts/internal/spec"
	"github.com/mark3labs/openapi2ts/internal/tswriter"
)

// Options controls how the emitter renders the package.
type Options struct {
	OutDir      string // required; target directory to write the package
	PackageName string // npm package name; derived from the spec title when empty
	ClientName  string // client class name; defaults to "Client"

	// RemoveTagFromOperationID strips tag names out of accessor keys.
	RemoveTagFromOperationID bool
	// ReadonlyWriteonlyModifiers emits the read/write filtering helpers and
	// translates method types as read/write views.
	ReadonlyWriteonlyModifiers bool

	Force   bool // overwrite existing files
	DryRun  bool // don't write, only plan
	Verbose bool
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and final resolved names.
type Result struct {
	PackageName string
	Planned     []PlannedFile
}

// Emit renders the npm package for doc. Both generation passes run before
// any file is planned, so a generation error leaves the output untouched.
func Emit(ctx context.Context, doc *genspec.Document, opts Options) (*Result, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("tsemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("tsemitter: OutDir is required")
	}
	pkgName := sanitizePackageName(opts.PackageName)
	if pkgName == "" {
		pkgName = derivePackageName(doc.Title)
		if pkgName == "" {
			pkgName = "api-client"
		}
	}

	typesFile := tswriter.NewFile()
	if err := gen.GenerateTypes(typesFile, doc, gen.TypesOptions{
		AddReadonlyWriteonlyModifiers: opts.ReadonlyWriteonlyModifiers,
	}); err != nil {
		return nil, fmt.Errorf("generate types: %w", err)
	}

	clientFile := tswriter.NewFile()
	if err := gen.GenerateClient(clientFile, doc, gen.ClientOptions{
		ClassName:                opts.ClientName,
		RemoveTagFromOperationID: opts.RemoveTagFromOperationID,
		WithFilters:              opts.ReadonlyWriteonlyModifiers,
	}); err != nil {
		return nil, fmt.Errorf("generate client: %w", err)
	}

	files := map[string][]byte{}
	files[".editorconfig"] = []byte(renderEditorConfig())
	files["package.json"] = []byte(renderPackageJSON(pkgName, doc.Version))
	files["tsconfig.json"] = []byte(renderTSConfig())
	files["README.md"] = []byte(renderReadme(pkgName, doc))
	files[filepath.Join("src", "types.ts")] = typesFile.Render()
	files[filepath.Join("src", "client.ts")] = clientFile.Render()
	files[filepath.Join("src", "index.ts")] = []byte(renderIndexTs())

	// Plan in deterministic order
	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}

	return &Result{PackageName: pkgName, Planned: planned}, nil
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	// Pre-flight: refuse a non-empty directory unless forced.
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("tsemitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

func renderEditorConfig() string {
	return `root = true

[*]
charset = utf-8
end_of_line = lf
insert_final_newline = true
indent_style = space
indent_size = 2
`
}

func renderPackageJSON(pkgName, version string) string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "0.1.0"
	}
	return fmt.Sprintf(`{
  "name": %q,
  "version": %q,
  "description": "Generated API client",
  "main": "dist/index.js",
  "types": "dist/index.d.ts",
  "files": ["dist"],
  "scripts": {
    "build": "tsc -p tsconfig.json"
  },
  "dependencies": {
    "axios": "^1.6.0"
  },
  "devDependencies": {
    "typescript": "^5.3.0"
  }
}
`, pkgName, v)
}

func renderTSConfig() string {
	return `{
  "compilerOptions": {
    "target": "ES2019",
    "module": "commonjs",
    "declaration": true,
    "outDir": "dist",
    "strict": true,
    "esModuleInterop": true,
    "skipLibCheck": true
  },
  "include": ["src"]
}
`
}

func renderIndexTs() string {
	return `export * from "./types";
export * from "./client";
`
}

func renderReadme(pkgName string, doc *genspec.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pkgName)
	if doc.Title != "" {
		fmt.Fprintf(&b, "Generated TypeScript client for %s", doc.Title)
		if doc.Version != "" {
			fmt.Fprintf(&b, " (version %s)", doc.Version)
		}
		b.WriteString(".\n\n")
	}
	b.WriteString("```ts\nimport { Client } from \"" + pkgName + "\";\n\nconst client = new Client({ baseURL: \"https://api.example.com\" });\n```\n")
	return b.String()
}

func sanitizePackageName(name string) string {
	// Simplified npm name sanitizer (no scope handling): lowercase with
	// dot, dash, underscore allowed.
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "/", "-")
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-.")
}

func derivePackageName(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return ""
	}
	repl := strings.NewReplacer("/", " ", "_", " ", ".", " ", ",", " ", ":", " ")
	t = repl.Replace(t)
	parts := strings.Fields(t)
	if len(parts) == 0 {
		return ""
	}
	return sanitizePackageName(strings.Join(parts, "-"))
}
