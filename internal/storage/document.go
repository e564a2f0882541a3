package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskeasy-go/internal/task"
)

// SchemaVersion is the board document version written by this package.
const SchemaVersion = 1

const schemaURL = "https://github.com/nibzard/taskeasy-go/board.schema.json"

//go:embed schema.json
var boardSchema string

// Schema returns the JSON Schema for board documents.
func Schema() string {
	return boardSchema
}

// Document is the on-disk board layout.
type Document struct {
	SchemaVersion int         `json:"schema_version"`
	Key           string      `json:"key,omitempty"`
	Tasks         []task.Task `json:"tasks"`
}

// DocumentError represents a schema violation with its location.
type DocumentError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	envelopeSchema *jsonschema.Schema
	compileErr     error
)

func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(boardSchema)); err != nil {
			compileErr = fmt.Errorf("add board schema: %w", err)
			return
		}
		if compiledSchema, compileErr = compiler.Compile(schemaURL); compileErr != nil {
			compileErr = fmt.Errorf("compile board schema: %w", compileErr)
			return
		}
		if envelopeSchema, compileErr = compiler.Compile(schemaURL + "#/$defs/envelope"); compileErr != nil {
			compileErr = fmt.Errorf("compile envelope schema: %w", compileErr)
		}
	})
	return compileErr
}

// ValidateDocument checks raw board data against the board schema. A bare
// JSON array of tasks is checked as the task list of a version 1 document.
// The result is empty when data is valid.
func ValidateDocument(data []byte) []error {
	if err := compileSchemas(); err != nil {
		return []error{err}
	}
	return validateAgainst(compiledSchema, normalizeDocument(data))
}

func validateAgainst(s *jsonschema.Schema, data []byte) []error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []error{&DocumentError{Err: fmt.Errorf("parse board: %w", err)}}
	}

	if err := s.Validate(doc); err != nil {
		var errs []error
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{err}
		}
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

// decodeDocument parses board data. Only the envelope has to be valid:
// records that cannot be decoded as tasks are logged and skipped, and the
// task rules are left to the caller.
func decodeDocument(data []byte, logger *log.Logger) (*Document, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	data = normalizeDocument(data)
	if errs := validateAgainst(envelopeSchema, data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid board: %w", errors.Join(errs...))
	}

	var raw struct {
		SchemaVersion int               `json:"schema_version"`
		Key           string            `json:"key"`
		Tasks         []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}

	doc := &Document{
		SchemaVersion: raw.SchemaVersion,
		Key:           raw.Key,
		Tasks:         make([]task.Task, 0, len(raw.Tasks)),
	}
	for i, rec := range raw.Tasks {
		var t task.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			logger.Warn("skipping unreadable stored task", "index", i, "err", err)
			continue
		}
		doc.Tasks = append(doc.Tasks, t)
	}
	return doc, nil
}

// encodeDocument writes tasks as a board document with 2-space
// indentation and a trailing newline.
func encodeDocument(key string, tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(Document{
		SchemaVersion: SchemaVersion,
		Key:           key,
		Tasks:         tasks,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal board: %w", err)
	}
	return append(data, '\n'), nil
}

// normalizeDocument wraps a bare task array in a version 1 document.
func normalizeDocument(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return data
	}
	var b bytes.Buffer
	b.WriteString(`{"schema_version":1,"tasks":`)
	b.Write(trimmed)
	b.WriteByte('}')
	return b.Bytes()
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &DocumentError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
