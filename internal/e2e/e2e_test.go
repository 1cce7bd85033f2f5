package e2e

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	cli "github.com/mark3labs/openapi2ts/internal/cli"
)

// petstore-style spec exercising refs, enums, tags, path parameters, and
// read/write-only properties
const petSpec = `openapi: 3.0.0
info:
  title: E2E Pet Store
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: petsList
      tags: [pets]
      parameters:
        - in: query
          name: limit
          schema:
            type: integer
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: petsCreate
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
  /pets/{id}:
    get:
      operationId: petsGetById
      tags: [pets]
      parameters:
        - in: path
          name: id
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
        status:
          $ref: '#/components/schemas/Status'
        secret:
          type: string
          writeOnly: true
    Status:
      type: string
      enum: [available, pending, sold]
`

func writeTempSpec(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "spec.yaml")
	if err := os.WriteFile(p, []byte(petSpec), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	root := cli.NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("cli execute %v: %v", args, err)
	}
}

func digestDir(t *testing.T, dir string) (files []string, sum string) {
	t.Helper()
	var list []string
	h := sha256.New()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)
		list = append(list, rel)
		_, _ = h.Write([]byte(rel))
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		_, _ = h.Write(b)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	sort.Strings(list)
	return list, hex.EncodeToString(h.Sum(nil))
}

func TestE2E_Generate_Deterministic(t *testing.T) {
	t.Parallel()
	spec := writeTempSpec(t)
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	runCLI(t, "generate", "--input", spec, "--out", dir1, "--force")
	runCLI(t, "generate", "--input", spec, "--out", dir2, "--force")

	files1, sum1 := digestDir(t, dir1)
	files2, sum2 := digestDir(t, dir2)
	if !slicesEqual(files1, files2) || sum1 != sum2 {
		t.Fatalf("generated outputs differ between runs\nfiles1=%v\nfiles2=%v\nsum1=%s\nsum2=%s", files1, files2, sum1, sum2)
	}

	mustExist(t, filepath.Join(dir1, ".editorconfig"))
	mustExist(t, filepath.Join(dir1, "package.json"))
	mustExist(t, filepath.Join(dir1, "tsconfig.json"))
	mustExist(t, filepath.Join(dir1, "src", "index.ts"))
}

func TestE2E_Generate_GeneratedSources(t *testing.T) {
	t.Parallel()
	spec := writeTempSpec(t)
	out := t.TempDir()

	runCLI(t, "generate", "--input", spec, "--out", out, "--force", "--readonly-writeonly-modifiers")

	types := readFile(t, filepath.Join(out, "src", "types.ts"))
	for _, fragment := range []string{
		"export type Pet = {",
		"id: (number) & readonlyP;",
		"secret?: (string) & writeonlyP;",
		"export enum Status {",
		`Available = "available",`,
		"export type WithoutReadonly<T>",
		"export type WithoutWriteonly<T>",
	} {
		if !strings.Contains(types, fragment) {
			t.Errorf("types.ts missing %q:\n%s", fragment, types)
		}
	}

	client := readFile(t, filepath.Join(out, "src", "client.ts"))
	for _, fragment := range []string{
		`import axios, { AxiosInstance, AxiosRequestConfig } from "axios";`,
		"export class Client {",
		"get pets() {",
		"petsList: this.petsList.bind(this),",
		"`/pets/${params[\"id\"]}`",
		"data: Types.WithoutReadonly<Types.Pet>",
		"get<Types.WithoutWriteonly<Types.Pet>>",
	} {
		if !strings.Contains(client, fragment) {
			t.Errorf("client.ts missing %q:\n%s", fragment, client)
		}
	}
}

func TestE2E_Generate_StrippedAccessorKeys(t *testing.T) {
	t.Parallel()
	spec := writeTempSpec(t)
	out := t.TempDir()

	runCLI(t, "generate", "--input", spec, "--out", out, "--force", "--remove-tag-from-operation-id")

	client := readFile(t, filepath.Join(out, "src", "client.ts"))
	for _, fragment := range []string{
		"List: this.petsList.bind(this),",
		"Create: this.petsCreate.bind(this),",
		"GetById: this.petsGetById.bind(this),",
	} {
		if !strings.Contains(client, fragment) {
			t.Errorf("client.ts missing %q:\n%s", fragment, client)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %s: %v", path, err)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
