package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryScene    Category = "scene"
	CategorySnapshot Category = "snapshot"
	CategoryCLI      Category = "cli"
	CategoryRuntime  Category = "runtime"
)

// Location represents a position in a source document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// LatticeError is a structured error with a code, an optional document
// location, and a hint on how to fix it.
type LatticeError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (config, scene, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path is the position inside a structured document, such as
	// "root.children[2]" for a scene node.
	Path string

	// Location is the file position where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LatticeError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LatticeError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error and reads the surrounding
// lines from disk.
func (e *LatticeError) WithLocation(file string, line, column int) *LatticeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithOffset resolves a byte offset in data (as reported by
// encoding/json syntax errors) to a line and column.
func (e *LatticeError) WithOffset(file string, data []byte, offset int64) *LatticeError {
	if offset < 0 || offset > int64(len(data)) {
		return e
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	column := int(offset) + 1
	if i := bytes.LastIndexByte(prefix, '\n'); i >= 0 {
		column = int(offset) - i
	}
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextFromBytes(data, line, 5)
	return e
}

// WithPath records the position inside a structured document.
func (e *LatticeError) WithPath(path string) *LatticeError {
	e.Path = path
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LatticeError) WithSuggestion(s string) *LatticeError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *LatticeError) WithExample(ex string) *LatticeError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *LatticeError) WithDetail(d string) *LatticeError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted one.
func (e *LatticeError) WithDetailf(format string, args ...any) *LatticeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *LatticeError) Wrap(err error) *LatticeError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()
	return scanContext(bufio.NewScanner(file), targetLine, contextSize)
}

func contextFromBytes(data []byte, targetLine, contextSize int) []string {
	return scanContext(bufio.NewScanner(bytes.NewReader(data)), targetLine, contextSize)
}

func scanContext(scanner *bufio.Scanner, targetLine, contextSize int) []string {
	var lines []string
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a LatticeError from a registered error code.
func New(code string) *LatticeError {
	template, ok := registry[code]
	if !ok {
		return &LatticeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &LatticeError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a LatticeError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *LatticeError {
	return &LatticeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a LatticeError. An error that already
// is a LatticeError is returned unchanged.
func FromError(err error, code string) *LatticeError {
	if err == nil {
		return nil
	}
	if le, ok := err.(*LatticeError); ok {
		return le
	}
	return New(code).Wrap(err)
}

// Is reports whether err is a LatticeError with the given code.
func Is(err error, code string) bool {
	for err != nil {
		if le, ok := err.(*LatticeError); ok && le.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
