package tsemitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	genspec "github.com/mark3labs/openapi2ts/internal/spec"
)

func sampleDocument() *genspec.Document {
	pet := &genspec.SchemaNode{
		Kind: genspec.KindObject,
		Properties: []genspec.Property{
			{Name: "id", Schema: &genspec.SchemaNode{Kind: genspec.KindPrimitive, Type: "integer"}, Required: true},
			{Name: "name", Schema: &genspec.SchemaNode{Kind: genspec.KindPrimitive, Type: "string"}, Required: true},
		},
	}
	d := genspec.NewDocument(
		[]genspec.NamedSchema{{Name: "Pet", Schema: pet}},
		[]genspec.Operation{
			{
				ID:     "petsList",
				Method: genspec.GET,
				Path:   "/pets",
				Tags:   []string{"pets"},
				Responses: []genspec.Response{
					{Status: "200", HasJSON: true, Schema: &genspec.SchemaNode{Kind: genspec.KindArray, Items: &genspec.SchemaNode{Kind: genspec.KindRef, Ref: "Pet"}}},
				},
			},
		},
	)
	d.Title = "Pet Store"
	d.Version = "1.2.3"
	return d
}

func TestEmit_DryRunPlansWithoutWriting(t *testing.T) {
	t.Parallel()
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := Emit(context.Background(), sampleDocument(), Options{OutDir: outDir, DryRun: true})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	wantFiles := []string{".editorconfig", "README.md", "package.json", "src/client.ts", "src/index.ts", "src/types.ts", "tsconfig.json"}
	if len(res.Planned) != len(wantFiles) {
		t.Fatalf("planned: got %d files: %+v", len(res.Planned), res.Planned)
	}
	for i, want := range wantFiles {
		if res.Planned[i].RelPath != want {
			t.Errorf("planned[%d]: got %q want %q", i, res.Planned[i].RelPath, want)
		}
	}

	if _, err := os.Stat(outDir); err == nil {
		t.Fatalf("dry-run must not create the output directory")
	}
}

func TestEmit_WritesPackage(t *testing.T) {
	t.Parallel()
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := Emit(context.Background(), sampleDocument(), Options{OutDir: outDir})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if res.PackageName != "pet-store" {
		t.Errorf("package name: got %q", res.PackageName)
	}

	pkg, err := os.ReadFile(filepath.Join(outDir, "package.json"))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	if !strings.Contains(string(pkg), `"name": "pet-store"`) || !strings.Contains(string(pkg), `"version": "1.2.3"`) {
		t.Fatalf("package.json: %s", pkg)
	}
	if !strings.Contains(string(pkg), `"axios"`) {
		t.Fatalf("package.json missing axios dependency: %s", pkg)
	}

	types, err := os.ReadFile(filepath.Join(outDir, "src", "types.ts"))
	if err != nil {
		t.Fatalf("read types.ts: %v", err)
	}
	if !strings.Contains(string(types), "export type Pet = {") {
		t.Fatalf("types.ts: %s", types)
	}

	client, err := os.ReadFile(filepath.Join(outDir, "src", "client.ts"))
	if err != nil {
		t.Fatalf("read client.ts: %v", err)
	}
	if !strings.Contains(string(client), "export class Client {") {
		t.Fatalf("client.ts: %s", client)
	}
	if !strings.Contains(string(client), "get pets() {") {
		t.Fatalf("client.ts missing tag accessor: %s", client)
	}
}

func TestEmit_RefusesNonEmptyDir(t *testing.T) {
	t.Parallel()
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outDir, "keep.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := Emit(context.Background(), sampleDocument(), Options{OutDir: outDir})
	if err == nil {
		t.Fatalf("expected error for non-empty directory")
	}
	if !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("unexpected error: %v", err)
	}

	// Force overwrites.
	if _, err := Emit(context.Background(), sampleDocument(), Options{OutDir: outDir, Force: true}); err != nil {
		t.Fatalf("force emit: %v", err)
	}
}

func TestEmit_PackageNameOverride(t *testing.T) {
	t.Parallel()
	res, err := Emit(context.Background(), sampleDocument(), Options{
		OutDir:      filepath.Join(t.TempDir(), "out"),
		PackageName: "My Fancy/Client",
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if res.PackageName != "my-fancy-client" {
		t.Fatalf("got %q", res.PackageName)
	}
}

func TestSanitizePackageName(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"Pet Store", "pet-store"},
		{"petstore", "petstore"},
		{"--weird--", "weird"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sanitizePackageName(c.in); got != c.want {
			t.Errorf("sanitizePackageName(%q): got %q want %q", c.in, got, c.want)
		}
	}
}
