package analysis

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Ordered is a string-keyed map that remembers insertion order and encodes
// its entries in that order for both JSON and YAML.
type Ordered[V any] struct {
	keys []string
	vals map[string]V
}

// NewOrdered returns an empty Ordered map.
func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{vals: make(map[string]V)}
}

// Set stores v under k. A new key is appended after the existing ones.
func (o *Ordered[V]) Set(k string, v V) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *Ordered[V]) Get(k string) (V, bool) {
	v, ok := o.vals[k]
	return v, ok
}

func (o *Ordered[V]) Len() int { return len(o.keys) }

// Keys returns a copy of the keys in insertion order.
func (o *Ordered[V]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (o *Ordered[V]) Each(fn func(k string, v V)) {
	for _, k := range o.keys {
		fn(k, o.vals[k])
	}
}

func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Ordered[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		val := &yaml.Node{}
		if err := val.Encode(o.vals[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}
