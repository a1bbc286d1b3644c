package jsep

import (
	"github.com/segmentio/encoding/json"
)

// ToMap converts n into the ESTree-shaped generic form used for JSON and
// YAML output. Positions are not included.
func ToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{"type": string(n.Type())}

	switch n := n.(type) {
	case *Compound:
		m["body"] = toMaps(n.Body)
	case *Identifier:
		m["name"] = n.Name
	case *ThisExpression:
	case *Literal:
		m["value"] = n.Value
		m["raw"] = n.Raw
	case *MemberExpression:
		m["computed"] = n.Computed
		m["object"] = ToMap(n.Object)
		m["property"] = ToMap(n.Property)
	case *CallExpression:
		m["callee"] = ToMap(n.Callee)
		m["arguments"] = toMaps(n.Arguments)
	case *UnaryExpression:
		m["operator"] = n.Operator
		m["argument"] = ToMap(n.Argument)
		m["prefix"] = n.Prefix
	case *BinaryExpression:
		m["operator"] = n.Operator
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)
	}

	return m
}

func toMaps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToMap(n)
	}

	return out
}

// MarshalJSON implements json.Marshaler.
func (n *Compound) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *Identifier) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *ThisExpression) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *Literal) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *MemberExpression) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *CallExpression) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *UnaryExpression) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }

// MarshalJSON implements json.Marshaler.
func (n *BinaryExpression) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(n)) }
