package data

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Block is a read-only node of a hierarchical config file. Each block has a
// key, an ordered list of child blocks and zero or more lines of text.
type Block interface {
	// Key returns the name this block was declared under.
	Key() string
	// Text is shorthand for Line(0).
	Text() string
	// Line returns the n-th line of the block's own text, or "" past the end.
	Line(n int) string
	// Children returns the child blocks in declaration order.
	Children() []Block
	// Lookup returns the child block declared under key, or nil.
	Lookup(key string) Block
	// Decode unmarshals the block's content into v.
	Decode(v any) error
}

// yamlBlock implements Block on top of an ordered yaml.Node tree.
type yamlBlock struct {
	key  string
	node *yaml.Node
}

// LoadFile reads a YAML config file and returns its root block.
func LoadFile(path string) (Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	b, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes YAML text into a root block.
func Parse(raw []byte) (Block, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		// empty file
		return &yamlBlock{node: &yaml.Node{Kind: yaml.MappingNode}}, nil
	}
	return &yamlBlock{node: doc.Content[0]}, nil
}

func (b *yamlBlock) Key() string  { return b.key }
func (b *yamlBlock) Text() string { return b.Line(0) }

func (b *yamlBlock) Line(n int) string {
	if n < 0 {
		return ""
	}
	switch b.node.Kind {
	case yaml.ScalarNode:
		if b.node.Tag == "!!null" {
			return ""
		}
		lines := strings.Split(b.node.Value, "\n")
		if n < len(lines) {
			return lines[n]
		}
	case yaml.SequenceNode:
		if n < len(b.node.Content) {
			return scalarText(b.node.Content[n])
		}
	case yaml.MappingNode:
		if 2*n+1 < len(b.node.Content) {
			k, v := b.node.Content[2*n], b.node.Content[2*n+1]
			if s := scalarText(v); s != "" {
				return k.Value + " " + s
			}
			return k.Value
		}
	case yaml.AliasNode:
		return (&yamlBlock{key: b.key, node: b.node.Alias}).Line(n)
	}
	return ""
}

func (b *yamlBlock) Children() []Block {
	node := resolve(b.node)
	switch node.Kind {
	case yaml.MappingNode:
		out := make([]Block, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, &yamlBlock{key: node.Content[i].Value, node: node.Content[i+1]})
		}
		return out
	case yaml.SequenceNode:
		out := make([]Block, 0, len(node.Content))
		for i, item := range node.Content {
			out = append(out, &yamlBlock{key: strconv.Itoa(i), node: item})
		}
		return out
	}
	return nil
}

func (b *yamlBlock) Lookup(key string) Block {
	node := resolve(b.node)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return &yamlBlock{key: key, node: node.Content[i+1]}
		}
	}
	return nil
}

func (b *yamlBlock) Decode(v any) error {
	if err := b.node.Decode(v); err != nil {
		return fmt.Errorf("block %q line %d: %w", b.key, b.node.Line, err)
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func scalarText(n *yaml.Node) string {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}
