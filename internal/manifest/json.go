package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxJSONDepth = 10000

// ParseJSON decodes a single JSON value. Object key order is kept; a repeated
// key keeps its first position and its last value. Empty input and trailing
// data are parse errors.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := &jsonParser{dec: dec}
	root, err := p.value(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, Wrap(ErrParse, "parse json", "", err)
	}

	switch _, err := dec.Token(); {
	case err == nil:
		return nil, Wrap(ErrParse, "parse json", "", fmt.Errorf("offset %d: unexpected data after top-level value", dec.InputOffset()))
	case !errors.Is(err, io.EOF):
		return nil, Wrap(ErrParse, "parse json", "", err)
	}
	return &Document{Root: root}, nil
}

type jsonParser struct {
	dec *json.Decoder
}

func (p *jsonParser) value(depth int) (*Value, error) {
	if depth > maxJSONDepth {
		return nil, fmt.Errorf("offset %d: nesting exceeds %d levels", p.dec.InputOffset(), maxJSONDepth)
	}
	tok, err := p.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(depth)
		case '[':
			return p.array(depth)
		default:
			return nil, fmt.Errorf("offset %d: unexpected %q", p.dec.InputOffset(), t)
		}
	case string:
		return &Value{Kind: String, Text: t}, nil
	case json.Number:
		return &Value{Kind: Number, Text: t.String()}, nil
	case bool:
		if t {
			return &Value{Kind: Bool, Text: "true"}, nil
		}
		return &Value{Kind: Bool, Text: "false"}, nil
	case nil:
		return &Value{Kind: Null}, nil
	default:
		return nil, fmt.Errorf("offset %d: unexpected token %v", p.dec.InputOffset(), tok)
	}
}

func (p *jsonParser) object(depth int) (*Value, error) {
	b := newMappingBuilder(0)
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("offset %d: object key must be a string", p.dec.InputOffset())
		}
		value, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		b.set(key, value)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, err
	}
	return b.value(), nil
}

func (p *jsonParser) array(depth int) (*Value, error) {
	items := make([]*Value, 0)
	for p.dec.More() {
		item, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, err
	}
	return &Value{Kind: Sequence, Items: items}, nil
}

// EncodeJSON renders the document as pretty-printed JSON with indent spaces
// per level and a trailing newline. HTML characters are not escaped.
func (d *Document) EncodeJSON(indent int) ([]byte, error) {
	if d.Empty() {
		return nil, nil
	}
	w := &jsonWriter{indent: strings.Repeat(" ", indent)}
	w.strEnc = json.NewEncoder(&w.scratch)
	w.strEnc.SetEscapeHTML(false)
	if err := w.value(d.Root, 0); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	w.buf.WriteByte('\n')
	return w.buf.Bytes(), nil
}

type jsonWriter struct {
	buf     bytes.Buffer
	scratch bytes.Buffer
	strEnc  *json.Encoder
	indent  string
}

func (w *jsonWriter) value(v *Value, depth int) error {
	switch v.Kind {
	case Null:
		w.buf.WriteString("null")
	case Bool, Number:
		w.buf.WriteString(v.Text)
	case String:
		return w.string(v.Text)
	case Sequence:
		if len(v.Items) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.value(item, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte(']')
	case Mapping:
		if len(v.Fields) == 0 {
			w.buf.WriteString("{}")
			return nil
		}
		w.buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.string(f.Key); err != nil {
				return err
			}
			w.buf.WriteString(": ")
			if err := w.value(f.Value, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}

func (w *jsonWriter) newline(depth int) {
	w.buf.WriteByte('\n')
	for range depth {
		w.buf.WriteString(w.indent)
	}
}

func (w *jsonWriter) string(s string) error {
	w.scratch.Reset()
	if err := w.strEnc.Encode(s); err != nil {
		return err
	}
	w.buf.Write(bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'}))
	return nil
}
