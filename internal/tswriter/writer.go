// Package tswriter accumulates TypeScript declarations and renders them into
// formatted source text. Generators build lazy Code values (some type
// expressions span multiple indented lines) and register declarations on a
// File; rendering happens once, after all declarations are in place.
package tswriter

import (
	"bytes"
	"fmt"
	"strings"
)

// Code is a deferred fragment of TypeScript source. Fragments compose via
// Group and Join and only touch the writer when the file renders.
type Code interface {
	Emit(w *Writer)
}

// Writer is an indentation-aware output buffer. Indentation is applied at
// the start of every line, two spaces per level.
type Writer struct {
	buf    bytes.Buffer
	indent int
	bol    bool
}

// NewWriter returns an empty writer positioned at the beginning of a line.
func NewWriter() *Writer {
	return &Writer{bol: true}
}

// WriteString appends s, inserting the current indent after each newline.
func (w *Writer) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			w.buf.WriteByte('\n')
			w.bol = true
			continue
		}
		if w.bol {
			w.buf.WriteString(strings.Repeat("  ", w.indent))
			w.bol = false
		}
		w.buf.WriteByte(s[i])
	}
}

// Newline terminates the current line.
func (w *Writer) Newline() { w.WriteString("\n") }

// Indented runs fn with the indent level raised by one.
func (w *Writer) Indented(fn func()) {
	w.indent++
	fn()
	w.indent--
}

// String returns everything written so far.
func (w *Writer) String() string { return w.buf.String() }

type textCode string

func (t textCode) Emit(w *Writer) { w.WriteString(string(t)) }

// Text returns a literal code fragment.
func Text(s string) Code { return textCode(s) }

// Textf returns a formatted literal code fragment.
func Textf(format string, args ...any) Code { return textCode(fmt.Sprintf(format, args...)) }

type groupCode []Code

func (g groupCode) Emit(w *Writer) {
	for _, c := range g {
		c.Emit(w)
	}
}

// Group concatenates fragments.
func Group(parts ...Code) Code { return groupCode(parts) }

type joinCode struct {
	sep   string
	parts []Code
}

func (j joinCode) Emit(w *Writer) {
	for i, c := range j.parts {
		if i > 0 {
			w.WriteString(j.sep)
		}
		c.Emit(w)
	}
}

// Join concatenates fragments with a separator between them.
func Join(sep string, parts []Code) Code { return joinCode{sep: sep, parts: parts} }

type blockCode struct {
	open  string
	lines []Code
	close string
}

func (b blockCode) Emit(w *Writer) {
	w.WriteString(b.open)
	w.Newline()
	w.Indented(func() {
		for _, line := range b.lines {
			line.Emit(w)
			w.Newline()
		}
	})
	w.WriteString(b.close)
}

// Block renders open, each line indented on its own line, then close. Used
// for object type literals and statement bodies.
func Block(open string, lines []Code, close string) Code {
	return blockCode{open: open, lines: lines, close: close}
}

// Render evaluates a fragment into a string, starting at indent zero.
func Render(c Code) string {
	w := NewWriter()
	c.Emit(w)
	return w.String()
}

// EnumMember is one member of an enum declaration. Value keeps its source
// quoting ("\"a\"" for strings, "1" for numbers).
type EnumMember struct {
	Name  string
	Value string
}

// Param is one parameter of a function or method.
type Param struct {
	Name     string
	Type     Code
	Optional bool
}

// Method is a class method. A nil ReturnType omits the annotation and lets
// the checker infer it.
type Method struct {
	Name       string
	Private    bool
	Async      bool
	Params     []Param
	ReturnType Code
	Body       []Code // statements, one per line
}

// Accessor is a public getter returning an object literal of bound methods.
type Accessor struct {
	Name string
	Body []Code
}

// ClassProperty is a class field declaration.
type ClassProperty struct {
	Name     string
	Type     Code
	Private  bool
	Readonly bool
	Optional bool
}

// Class collects the pieces of a class declaration.
type Class struct {
	Name        string
	Export      bool
	Properties  []ClassProperty
	Constructor *Method
	Methods     []*Method
	Accessors   []*Accessor
}

type decl interface{ emit(w *Writer) }

// File is the declaration container one generated source file is built from.
type File struct {
	decls []decl
}

// NewFile returns an empty declaration container.
func NewFile() *File { return &File{} }

type importDecl struct{ text string }

func (d importDecl) emit(w *Writer) { w.WriteString(d.text) }

// Import registers a verbatim import statement.
func (f *File) Import(text string) {
	f.decls = append(f.decls, importDecl{text: text})
}

type aliasDecl struct {
	name   string
	export bool
	body   Code
}

func (d aliasDecl) emit(w *Writer) {
	if d.export {
		w.WriteString("export ")
	}
	w.WriteString("type " + d.name + " = ")
	d.body.Emit(w)
	w.WriteString(";")
}

// TypeAlias registers a type alias declaration.
func (f *File) TypeAlias(name string, export bool, body Code) {
	f.decls = append(f.decls, aliasDecl{name: name, export: export, body: body})
}

type enumDecl struct {
	name    string
	export  bool
	members []EnumMember
}

func (d enumDecl) emit(w *Writer) {
	if d.export {
		w.WriteString("export ")
	}
	w.WriteString("enum " + d.name + " {")
	w.Newline()
	w.Indented(func() {
		for _, m := range d.members {
			w.WriteString(m.Name + " = " + m.Value + ",")
			w.Newline()
		}
	})
	w.WriteString("}")
}

// Enum registers an enum declaration.
func (f *File) Enum(name string, export bool, members []EnumMember) {
	f.decls = append(f.decls, enumDecl{name: name, export: export, members: members})
}

type rawDecl struct{ text string }

func (d rawDecl) emit(w *Writer) { w.WriteString(strings.TrimRight(d.text, "\n")) }

// Raw registers a verbatim declaration, e.g. a helper function body the
// generator carries as a literal snippet.
func (f *File) Raw(text string) {
	f.decls = append(f.decls, rawDecl{text: text})
}

type classDecl struct{ class *Class }

// Class registers a class declaration.
func (f *File) Class(c *Class) {
	f.decls = append(f.decls, classDecl{class: c})
}

func (d classDecl) emit(w *Writer) {
	c := d.class
	if c.Export {
		w.WriteString("export ")
	}
	w.WriteString("class " + c.Name + " {")
	w.Newline()
	w.Indented(func() {
		for _, p := range c.Properties {
			emitProperty(w, p)
		}
		if c.Constructor != nil {
			w.Newline()
			emitConstructor(w, c.Constructor)
		}
		for _, m := range c.Methods {
			w.Newline()
			emitMethod(w, m)
		}
		for _, a := range c.Accessors {
			w.Newline()
			emitAccessor(w, a)
		}
	})
	w.WriteString("}")
}

func emitProperty(w *Writer, p ClassProperty) {
	if p.Private {
		w.WriteString("private ")
	}
	if p.Readonly {
		w.WriteString("readonly ")
	}
	w.WriteString(p.Name)
	if p.Optional {
		w.WriteString("?")
	}
	if p.Type != nil {
		w.WriteString(": ")
		p.Type.Emit(w)
	}
	w.WriteString(";")
	w.Newline()
}

func emitParams(w *Writer, params []Param) {
	for i, p := range params {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(p.Name)
		if p.Optional {
			w.WriteString("?")
		}
		if p.Type != nil {
			w.WriteString(": ")
			p.Type.Emit(w)
		}
	}
}

func emitBody(w *Writer, body []Code) {
	w.WriteString(" {")
	w.Newline()
	w.Indented(func() {
		for _, stmt := range body {
			stmt.Emit(w)
			w.Newline()
		}
	})
	w.WriteString("}")
	w.Newline()
}

func emitConstructor(w *Writer, m *Method) {
	w.WriteString("constructor(")
	emitParams(w, m.Params)
	w.WriteString(")")
	emitBody(w, m.Body)
}

func emitMethod(w *Writer, m *Method) {
	if m.Private {
		w.WriteString("private ")
	}
	if m.Async {
		w.WriteString("async ")
	}
	w.WriteString(m.Name + "(")
	emitParams(w, m.Params)
	w.WriteString(")")
	if m.ReturnType != nil {
		w.WriteString(": ")
		m.ReturnType.Emit(w)
	}
	emitBody(w, m.Body)
}

func emitAccessor(w *Writer, a *Accessor) {
	w.WriteString("get " + a.Name + "()")
	emitBody(w, a.Body)
}

// Render serializes every registered declaration, separated by blank lines,
// with a trailing newline. Consecutive imports stay adjacent.
func (f *File) Render() []byte {
	w := NewWriter()
	for i, d := range f.decls {
		if i > 0 {
			_, prevImport := f.decls[i-1].(importDecl)
			_, curImport := d.(importDecl)
			if !(prevImport && curImport) {
				w.Newline()
			}
		}
		d.emit(w)
		w.Newline()
	}
	return []byte(w.String())
}
