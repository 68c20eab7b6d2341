package manifest

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
)

// Format is one of the two manifest encodings.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Document is a parsed manifest. A document with a nil Root came from input
// that held no value at all (an empty or comment-only YAML file); it encodes
// to empty content. A Root of Kind Null is a real, explicit null.
type Document struct {
	Root *Value
}

// Empty reports whether the document carries no value.
func (d *Document) Empty() bool {
	return d == nil || d.Root == nil
}

// Parse decodes data in the given format.
func Parse(format Format, data []byte) (*Document, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON:
		return ParseJSON(data)
	default:
		return nil, Wrap(ErrParse, "parse", "", fmt.Errorf("unsupported format %q", format))
	}
}

// Encode serializes the document in the given format using indent spaces per
// level. An empty document yields nil.
func (d *Document) Encode(format Format, indent int) ([]byte, error) {
	switch format {
	case FormatYAML:
		return d.EncodeYAML(indent)
	case FormatJSON:
		return d.EncodeJSON(indent)
	default:
		return nil, fmt.Errorf("encode: unsupported format %q", format)
	}
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	ra, okA := new(big.Rat).SetString(a)
	rb, okB := new(big.Rat).SetString(b)
	if !okA || !okB {
		return false
	}
	return ra.Cmp(rb) == 0
}
