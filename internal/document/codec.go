// Package document reads and writes translation documents.
//
// Documents are YAML files with a fixed field order: urlTranslation (page
// documents only), the content keys in document order, then _inputs with
// the root "$" entry first. Output is a pure function of the document, so
// regenerating an unchanged document yields identical bytes.
package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Reserved top-level field names.
const (
	URLTranslationKey = "urlTranslation"
	InputsKey         = "_inputs"
	RootInputKey      = "$"
)

// ReservedKeyError reports a content key that clashes with a reserved field.
type ReservedKeyError struct {
	Key string
}

func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("key %q is a reserved document field", e.Key)
}

// IsReserved reports whether id clashes with a field the document format
// owns. Such ids cannot be stored as content keys.
func IsReserved(id string) bool {
	return id == URLTranslationKey || id == InputsKey || id == RootInputKey
}

// Encode serializes doc as YAML.
func Encode(doc *core.Document) ([]byte, error) {
	for _, key := range doc.Keys {
		if IsReserved(key) {
			return nil, &ReservedKeyError{Key: key}
		}
	}

	root := &yaml.Node{Kind: yaml.MappingNode}

	if doc.Kind == core.PageDocument {
		appendString(root, URLTranslationKey, doc.URLTranslation)
	}
	for _, key := range doc.Keys {
		appendString(root, key, doc.Values[key])
	}

	inputs := &yaml.Node{Kind: yaml.MappingNode}
	if doc.Root != nil {
		if err := appendValue(inputs, RootInputKey, doc.Root); err != nil {
			return nil, err
		}
	}
	if doc.Kind == core.PageDocument && doc.URLInput != nil {
		if err := appendValue(inputs, URLTranslationKey, doc.URLInput); err != nil {
			return nil, err
		}
	}
	for _, key := range doc.Keys {
		meta, ok := doc.Inputs[key]
		if !ok {
			continue
		}
		if err := appendValue(inputs, key, meta); err != nil {
			return nil, err
		}
	}
	if len(inputs.Content) > 0 {
		root.Content = append(root.Content, keyNode(InputsKey), inputs)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode document %s: %w", doc.Source, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document %s: %w", doc.Source, err)
	}
	return buf.Bytes(), nil
}

func keyNode(key string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(key)
	return n
}

func appendString(m *yaml.Node, key, value string) {
	v := &yaml.Node{}
	v.SetString(value)
	m.Content = append(m.Content, keyNode(key), v)
}

func appendValue(m *yaml.Node, key string, value any) error {
	v := &yaml.Node{}
	if err := v.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.Content = append(m.Content, keyNode(key), v)
	return nil
}

// Decode parses a document. An empty input yields an empty document.
// Null values decode as empty strings; any other non-scalar value is an error
// naming the offending key.
func Decode(kind core.DocumentKind, source string, data []byte) (*core.Document, error) {
	doc := core.NewDocument(kind, source)

	var file yaml.Node
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if file.Kind == 0 || len(file.Content) == 0 {
		return doc, nil
	}

	top := file.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return doc, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse document: top level is not a mapping")
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		val := top.Content[i+1]

		switch key {
		case InputsKey:
			if err := decodeInputs(doc, val); err != nil {
				return nil, err
			}
		case URLTranslationKey:
			s, err := scalarValue(key, val)
			if err != nil {
				return nil, err
			}
			if kind == core.PageDocument {
				doc.URLTranslation = s
			} else {
				doc.Set(key, s)
			}
		default:
			s, err := scalarValue(key, val)
			if err != nil {
				return nil, err
			}
			doc.Set(key, s)
		}
	}
	return doc, nil
}

func scalarValue(key string, n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("key %q: expected a string value", key)
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

func decodeInputs(doc *core.Document, n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: expected a mapping", InputsKey)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]

		switch key {
		case RootInputKey:
			var root core.RootMeta
			if err := val.Decode(&root); err != nil {
				return fmt.Errorf("%s.%s: %w", InputsKey, key, err)
			}
			doc.Root = &root
		case URLTranslationKey:
			var meta core.InputMetadata
			if err := val.Decode(&meta); err != nil {
				return fmt.Errorf("%s.%s: %w", InputsKey, key, err)
			}
			doc.URLInput = &meta
		default:
			var meta core.InputMetadata
			if err := val.Decode(&meta); err != nil {
				return fmt.Errorf("%s.%s: %w", InputsKey, key, err)
			}
			doc.Inputs[key] = meta
		}
	}
	return nil
}
