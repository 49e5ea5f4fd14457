package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagResolver turns a node carrying an application tag (such as !include)
// into a Value.
type TagResolver func(node *yaml.Node) (Value, error)

// UnknownTagError occurs when a node carries an application tag and no
// TagResolver was supplied.
type UnknownTagError struct {
	Tag  string
	Line int
}

// Error implements the error interface.
func (e UnknownTagError) Error() string {
	return fmt.Sprintf("line %d: unknown tag %s", e.Line, e.Tag)
}

// DuplicateKeyError occurs when a mapping defines the same key twice.
type DuplicateKeyError struct {
	Key  string
	Line int
}

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("line %d: mapping key %q already defined", e.Line, e.Key)
}

// AliasCycleError occurs when an alias refers to a node that contains it.
type AliasCycleError struct {
	Anchor string
	Line   int
}

// Error implements the error interface.
func (e AliasCycleError) Error() string {
	return fmt.Sprintf("line %d: alias *%s refers to a node that contains it", e.Line, e.Anchor)
}

// ExpansionLimitError occurs when following aliases would visit more nodes
// than Limit.
type ExpansionLimitError struct {
	Limit int
}

// Error implements the error interface.
func (e ExpansionLimitError) Error() string {
	return fmt.Sprintf("document expands to more than %d nodes through aliases", e.Limit)
}

const (
	minExpansion    = 10000
	expansionFactor = 100
)

// FromNode converts a decoded YAML node into a Value. Aliases are followed and
// merge keys (<<) supply defaults that explicit keys override. Aliases that
// refer to one of their own ancestors are rejected, and the number of nodes
// visited while expanding aliases is bounded by a multiple of the node count.
func FromNode(node *yaml.Node, resolve TagResolver) (Value, error) {
	c := &converter{
		resolve: resolve,
		active:  map[*yaml.Node]bool{},
		limit:   minExpansion + expansionFactor*countNodes(node),
	}
	return c.convert(node)
}

// countNodes counts the nodes of the tree without following aliases.
func countNodes(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	n := 1
	for _, child := range node.Content {
		n += countNodes(child)
	}
	return n
}

type converter struct {
	resolve TagResolver
	active  map[*yaml.Node]bool
	visited int
	limit   int
}

func (c *converter) convert(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}

	c.visited++
	if c.visited > c.limit {
		return Value{}, ExpansionLimitError{Limit: c.limit}
	}

	if isApplicationTag(node.Tag) {
		if c.resolve == nil {
			return Value{}, UnknownTagError{Tag: node.Tag, Line: node.Line}
		}
		return c.resolve(node)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return c.convert(node.Content[0])
	case yaml.AliasNode:
		if c.active[node.Alias] {
			return Value{}, AliasCycleError{Anchor: node.Value, Line: node.Line}
		}
		return c.convert(node.Alias)
	case yaml.ScalarNode:
		return scalarFromNode(node)
	case yaml.SequenceNode:
		c.active[node] = true
		defer delete(c.active, node)

		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := c.convert(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, items: items}, nil
	case yaml.MappingNode:
		c.active[node] = true
		defer delete(c.active, node)

		return c.mapping(node)
	default:
		return Value{}, fmt.Errorf("line %d: unexpected yaml node kind %d", node.Line, node.Kind)
	}
}

func isApplicationTag(tag string) bool {
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}

func scalarFromNode(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return Str(node.Value), nil
	}
}

func (c *converter) mapping(node *yaml.Node) (Value, error) {
	out := NewMap()
	var merged []Value

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}

		if keyNode.ShortTag() == "!!merge" {
			sources, err := c.mergeSources(valueNode)
			if err != nil {
				return Value{}, err
			}
			merged = append(merged, sources...)
			continue
		}

		key := keyNode.Value
		if out.Has(key) {
			return Value{}, DuplicateKeyError{Key: key, Line: keyNode.Line}
		}
		val, err := c.convert(valueNode)
		if err != nil {
			return Value{}, err
		}
		out = out.Set(key, val)
	}

	// Earlier merge sources win over later ones; explicit keys win over both.
	for _, src := range merged {
		for _, k := range src.Keys() {
			if !out.Has(k) {
				e, _ := src.Get(k)
				out = out.Set(k, e)
			}
		}
	}
	return out, nil
}

func (c *converter) mergeSources(node *yaml.Node) ([]Value, error) {
	target := node
	if target.Kind == yaml.AliasNode {
		if c.active[target.Alias] {
			return nil, AliasCycleError{Anchor: target.Value, Line: target.Line}
		}
		target = target.Alias
	}
	var nodes []*yaml.Node
	switch target.Kind {
	case yaml.MappingNode:
		nodes = []*yaml.Node{target}
	case yaml.SequenceNode:
		nodes = target.Content
	default:
		return nil, fmt.Errorf("line %d: merge key requires a mapping or a sequence of mappings", target.Line)
	}

	out := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := c.convert(n)
		if err != nil {
			return nil, err
		}
		if !v.IsMap() {
			return nil, fmt.Errorf("line %d: merge key requires a mapping or a sequence of mappings", n.Line)
		}
		out = append(out, v)
	}
	return out, nil
}

// Node converts v into a YAML node, keeping map insertion order.
func (v Value) Node() (*yaml.Node, error) {
	switch v.kind {
	case KindList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			child, err := item.Node()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case KindMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			child, err := v.index[k].Node()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v.Interface()); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Node()
}
