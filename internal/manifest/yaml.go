package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// maxNodes bounds alias expansion so a small file cannot expand into an
// unbounded tree.
const maxNodes = 1 << 20

const (
	tagNull      = "!!null"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagBinary    = "!!binary"
	tagMerge     = "!!merge"
	tagMap       = "!!map"
	tagSeq       = "!!seq"
)

var errTooLarge = fmt.Errorf("document expands to more than %d nodes", maxNodes)

// ParseYAML decodes a single YAML document. Empty input yields an empty
// document; a stream with more than one document, duplicate mapping keys, or
// tags outside the core schema are parse errors. Aliases are expanded and
// merge keys applied, with explicit keys taking precedence over merged ones.
func ParseYAML(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, Wrap(ErrParse, "parse yaml", "", err)
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case err == nil:
		return nil, Wrap(ErrParse, "parse yaml", "", fmt.Errorf("line %d: expected a single document in the stream", extra.Line))
	case !errors.Is(err, io.EOF):
		return nil, Wrap(ErrParse, "parse yaml", "", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &Document{}, nil
		}
		root = root.Content[0]
	}
	// A comment-only stream can surface as a bare empty scalar.
	if root.Kind == yaml.ScalarNode && root.Value == "" && root.Style == 0 && root.ShortTag() == tagNull {
		return &Document{}, nil
	}

	conv := &yamlConverter{active: make(map[*yaml.Node]bool)}
	value, err := conv.convert(root)
	if err != nil {
		return nil, Wrap(ErrParse, "parse yaml", "", err)
	}
	return &Document{Root: value}, nil
}

type yamlConverter struct {
	nodes  int
	active map[*yaml.Node]bool
}

func (c *yamlConverter) convert(n *yaml.Node) (*Value, error) {
	c.nodes++
	if c.nodes > maxNodes {
		return nil, errTooLarge
	}

	if n.Anchor != "" {
		if c.active[n] {
			return nil, fmt.Errorf("line %d: anchor %q contains itself", n.Line, n.Anchor)
		}
		c.active[n] = true
		defer delete(c.active, n)
	}

	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if c.active[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to an enclosing node", n.Line, n.Value)
		}
		return c.convert(n.Alias)
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.SequenceNode:
		if tag := n.ShortTag(); tag != tagSeq {
			return nil, fmt.Errorf("line %d: unsupported sequence tag %q", n.Line, tag)
		}
		items := make([]*Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return &Value{Kind: Sequence, Items: items}, nil
	case yaml.MappingNode:
		if tag := n.ShortTag(); tag != tagMap {
			return nil, fmt.Errorf("line %d: unsupported mapping tag %q", n.Line, tag)
		}
		return c.mapping(n)
	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
	}
}

func (c *yamlConverter) mapping(n *yaml.Node) (*Value, error) {
	b := newMappingBuilder(len(n.Content) / 2)
	explicit := make(map[string]bool, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == tagMerge {
			if err := c.merge(b, valueNode); err != nil {
				return nil, err
			}
			continue
		}

		key, err := c.key(keyNode)
		if err != nil {
			return nil, err
		}
		if explicit[key] {
			return nil, fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key)
		}
		explicit[key] = true

		value, err := c.convert(valueNode)
		if err != nil {
			return nil, err
		}
		b.set(key, value)
	}
	return b.value(), nil
}

// merge copies fields from the mapping (or sequence of mappings) referenced by
// a "<<" key. Keys already present are left alone, so earlier sources win.
func (c *yamlConverter) merge(b *mappingBuilder, n *yaml.Node) error {
	source, err := c.convert(n)
	if err != nil {
		return err
	}
	var sources []*Value
	switch source.Kind {
	case Mapping:
		sources = []*Value{source}
	case Sequence:
		sources = source.Items
	default:
		return fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", n.Line)
	}
	for _, src := range sources {
		if src.Kind != Mapping {
			return fmt.Errorf("line %d: merge sequence may only contain mappings", n.Line)
		}
		for _, f := range src.Fields {
			if !b.has(f.Key) {
				b.set(f.Key, f.Value)
			}
		}
	}
	return nil
}

func (c *yamlConverter) key(n *yaml.Node) (string, error) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", n.Line)
	}
	value, err := scalarValue(n)
	if err != nil {
		return "", err
	}
	if value.Kind == Null {
		return "null", nil
	}
	return value.Text, nil
}

func scalarValue(n *yaml.Node) (*Value, error) {
	switch tag := n.ShortTag(); tag {
	case tagNull:
		return &Value{Kind: Null}, nil
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return &Value{Kind: Bool, Text: strconv.FormatBool(b)}, nil
	case tagInt:
		if text, ok := wideInteger(n.Value); ok {
			return &Value{Kind: Number, Text: text}, nil
		}
		var raw any
		if err := n.Decode(&raw); err != nil {
			return nil, err
		}
		text, err := integerText(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return &Value{Kind: Number, Text: text}, nil
	case tagFloat:
		if text, ok := wideInteger(n.Value); ok {
			return &Value{Kind: Number, Text: text}, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return &Value{Kind: Null}, nil
		}
		return &Value{Kind: Number, Text: floatText(f)}, nil
	case tagStr, tagTimestamp, tagBinary, tagMerge, "!":
		return &Value{Kind: String, Text: n.Value}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported scalar tag %q", n.Line, tag)
	}
}

func integerText(raw any) (string, error) {
	switch v := raw.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return floatText(v), nil
	default:
		return "", fmt.Errorf("unexpected integer value %v", raw)
	}
}

// wideInteger returns the decimal text of an integer literal that does not
// fit in 64 bits. Smaller literals go through the regular decoder.
func wideInteger(literal string) (string, bool) {
	z, ok := new(big.Int).SetString(literal, 0)
	if !ok || z.IsInt64() || z.IsUint64() {
		return "", false
	}
	return z.String(), true
}

// floatText formats f the way JavaScript prints numbers, which is what
// encoding/json implements for float64.
func floatText(f float64) string {
	b, err := json.Marshal(f)
	if err != nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return string(b)
}

// EncodeYAML renders the document in block style with indent spaces per
// level. Strings that would read back as another type are quoted.
func (d *Document) EncodeYAML(indent int) ([]byte, error) {
	if d.Empty() {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(yamlNode(d.Root)); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v *Value) *yaml.Node {
	switch v.Kind {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: "null"}
	case Bool, Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.Text}
	case String:
		return stringNode(v.Text)
	case Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(v.Items))}
		for _, item := range v.Items {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	default:
		node := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*len(v.Fields))}
		for _, f := range v.Fields {
			node.Content = append(node.Content,
				stringNode(f.Key),
				yamlNode(f.Value),
			)
		}
		return node
	}
}

// stringNode renders text as a YAML string. "<<" is quoted explicitly so it
// reads back as a plain key rather than a merge.
func stringNode(text string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: text}
	if text == "<<" {
		node.Style = yaml.DoubleQuotedStyle
	}
	return node
}
