package graph

import (
	"fmt"
)

// Keys of a raw message description.
const (
	RawKeyFrom    = "node_from"
	RawKeyTo      = "node_to"
	RawKeyMessage = "message"
)

// Message is a payload annotated with the node it came from and,
// optionally, the node it is destined for. It implements
// predicate.Message.
type Message struct {
	Data map[string]any
	From *Node
	To   *Node
}

// Payload returns the message data.
func (m *Message) Payload() map[string]any { return m.Data }

// Sender returns the name of the originating node.
func (m *Message) Sender() string {
	if m.From == nil {
		return ""
	}
	return m.From.Name()
}

// Recipient returns the name of the destination node or "".
func (m *Message) Recipient() string {
	if m.To == nil {
		return ""
	}
	return m.To.Name()
}

// NewMessageFromRaw builds a Message from its raw description. node_from
// and message are required; node_to is optional. Node names are resolved
// through g.
func NewMessageFromRaw(raw map[string]any, g *Graph) (*Message, error) {
	fromName, ok := raw[RawKeyFrom]
	if !ok {
		return nil, fmt.Errorf("no node specified in message description")
	}
	data, ok := raw[RawKeyMessage]
	if !ok {
		return nil, fmt.Errorf("no message content specified in message description")
	}

	from, err := resolveNode(g, RawKeyFrom, fromName)
	if err != nil {
		return nil, err
	}

	payload, err := payloadMap(data)
	if err != nil {
		return nil, err
	}

	msg := &Message{Data: payload, From: from}
	if toName, ok := raw[RawKeyTo]; ok && toName != nil && toName != "" {
		to, err := resolveNode(g, RawKeyTo, toName)
		if err != nil {
			return nil, err
		}
		msg.To = to
	}
	return msg, nil
}

func resolveNode(g *Graph, key string, v any) (*Node, error) {
	name, ok := v.(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%s must be a node name, got %T", key, v)
	}
	n, ok := g.NodeByName(name)
	if !ok {
		return nil, fmt.Errorf("%s: unknown node %q", key, name)
	}
	return n, nil
}

// payloadMap normalizes decoded message content to map[string]any.
func payloadMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("message content must be a mapping, got %T", v)
	}
}
