package genai

import "fmt"

// mockAudioB64 is a single silent MPEG audio frame, enough for clients to
// treat the data URI as playable audio without any synthesis call.
const mockAudioB64 = "//uQxAAAAAAAAAAAAAAAAAAAAAAAWGluZwAAAA8AAAACAAACcQCA" +
	"gICAgICAgICAgICAgICAgICAgICAgICAgICAgICAgICAgICAgICAgICA" +
	"gICAgICAgICAgICAgICA//////////////////////////////////////////8AAABhTEFN" +
	"RTMuMTAwA8MAAAAAAAAAABQgJAUHQQAB9AAAAnGMHkkIAAAAAAD/+xDEAAPAAAGkAAAAIAAANIAAAARMQU1FMy4xMDBVVVVVVVVVVVVVVVVVVVVV"

// MockAudioDataURL returns the deterministic audio data URI used in mock mode
func MockAudioDataURL() string {
	return "data:audio/mpeg;base64," + mockAudioB64
}

// MockMindMap builds a deterministic mind map around the topic: one central
// topic node, four branches, four sub-branches, all reachable from the root.
func MockMindMap(topic string) *MindMap {
	branches := []struct {
		label string
		kind  NodeKind
	}{
		{"Key Concepts", NodeKindIdea},
		{"Applications", NodeKindIdea},
		{"How It Works", NodeKindProcess},
		{"Open Choices", NodeKindDecision},
	}

	nodes := []Node{{
		ID:          "node-1",
		Kind:        NodeKindTopic,
		Label:       topic,
		Description: "Central Topic",
	}}
	var edges []Edge

	for i, b := range branches {
		id := fmt.Sprintf("node-%d", i+2)
		nodes = append(nodes, Node{ID: id, Kind: b.kind, Label: b.label, Description: "Branch of " + topic})
		edges = append(edges, Edge{ID: fmt.Sprintf("e1-%d", i+2), Source: "node-1", Target: id})

		subID := fmt.Sprintf("node-%d", i+6)
		nodes = append(nodes, Node{ID: subID, Kind: NodeKindIdea, Label: b.label + " Detail", Description: "Sub-branch"})
		edges = append(edges, Edge{ID: fmt.Sprintf("e%d-%d", i+2, i+6), Source: id, Target: subID})
	}

	return &MindMap{Nodes: nodes, Edges: edges}
}
