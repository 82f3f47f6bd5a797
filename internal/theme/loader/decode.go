// Package loader reads theme files from disk and resolves them by name.
//
// Theme files may be JSON (VS Code / TextMate style), TOML or YAML. All three
// decode into the same generic map shape and are exposed to the theme package
// through MapTheme. Registry indexes theme directories, implements
// theme.Resolver for include chains and caches decoded themes.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a theme file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for files that are not JSON, TOML or YAML.
	ErrUnsupportedFormat = errors.New("unsupported theme format")

	// ErrThemeNotFound is returned when no theme matches a name.
	ErrThemeNotFound = errors.New("theme not found")
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Decode parses data into a generic map. path is only used in errors.
func Decode(path string, data []byte, format Format) (map[string]any, error) {
	var out map[string]any
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&out)
	case FormatTOML:
		err = toml.Unmarshal(data, &out)
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, newParseError(path, err)
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}

// ParseError describes a theme file that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		pe.Line, pe.Column = decodeErr.Position()
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Message = fmt.Sprintf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset)
	}
	return pe
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
