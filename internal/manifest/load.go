package manifest

import (
	"fmt"

	"npmyaml/internal/fileutil"
)

// Load reads and parses the manifest at path. The format comes from the file
// extension. Read failures wrap ErrIO; decode failures wrap ErrParse.
func Load(path string) (*Document, Format, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, "", Wrap(ErrParse, "load manifest", path, fmt.Errorf("unrecognized extension"))
	}
	doc, err := LoadAs(path, format)
	return doc, format, err
}

// LoadAs reads path and parses it as format regardless of its extension.
func LoadAs(path string, format Format) (*Document, error) {
	data, err := fileutil.ReadText(path)
	if err != nil {
		return nil, Wrap(ErrIO, "read manifest", path, err)
	}
	doc, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
