package genai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// defaultChatReply is returned when the upstream envelope is syntactically
// valid but carries no text. Degrading to a generic non-answer beats failing
// the whole request over an empty candidate list.
const defaultChatReply = "No response."

// ExtractChatReply pulls the first text part of the first candidate out of a
// generateContent envelope. Unparsable JSON is a malformed upstream
// response; a parsable envelope with no text degrades to a literal default.
func ExtractChatReply(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", NewMalformedResponse("unparsable upstream envelope: " + err.Error())
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
		break // only the first candidate counts
	}
	return defaultChatReply, nil
}

// DataURL wraps binary content as a data URI. The format must be exact for
// client compatibility: no line breaks, standard base64 alphabet.
func DataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// fencedJSONRe matches a JSON object inside a markdown code fence, with or
// without a language tag.
var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractMindMap digs a mind map out of free text. The upstream is prompted
// to answer with bare JSON but routinely wraps it in a code fence or
// surrounds it with prose, so: try a fenced block first, then the outermost
// brace span. Validation stops at the presence of the nodes and edges keys;
// node counts and connectivity are steered by the prompt, not enforced here.
func ExtractMindMap(text string) (*MindMap, error) {
	var spans []string
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		spans = append(spans, m[1])
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		spans = append(spans, text[start:end+1])
	}
	if len(spans) == 0 {
		return nil, NewMalformedResponse("no JSON object in upstream response")
	}

	var lastErr error
	for _, span := range spans {
		mm, err := parseMindMap(span)
		if err == nil {
			return mm, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// mindMapWireNode is the node shape the upstream is prompted to emit;
// label and description sit under a data object and positions are ignored.
type mindMapWireNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"data"`
}

func parseMindMap(raw string) (*MindMap, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, NewMalformedResponse("unparsable mind map JSON: " + err.Error())
	}
	nodesRaw, okNodes := obj["nodes"]
	edgesRaw, okEdges := obj["edges"]
	if !okNodes || !okEdges {
		return nil, NewMalformedResponse("mind map JSON missing nodes or edges")
	}

	var wireNodes []mindMapWireNode
	if err := json.Unmarshal(nodesRaw, &wireNodes); err != nil {
		return nil, NewMalformedResponse("invalid mind map nodes: " + err.Error())
	}
	var edges []Edge
	if err := json.Unmarshal(edgesRaw, &edges); err != nil {
		return nil, NewMalformedResponse("invalid mind map edges: " + err.Error())
	}

	nodes := make([]Node, 0, len(wireNodes))
	for _, wn := range wireNodes {
		nodes = append(nodes, Node{
			ID:          wn.ID,
			Kind:        NodeKind(wn.Type),
			Label:       wn.Data.Label,
			Description: wn.Data.Description,
		})
	}
	return &MindMap{Nodes: nodes, Edges: edges}, nil
}

// Genre is the narration content type detected from the user's prompt
type Genre string

const (
	GenrePoem    Genre = "poem"
	GenreSong    Genre = "song lyrics"
	GenreStory   Genre = "short story"
	GenreDefault Genre = "creative content"
)

// ClassifyGenre is a keyword heuristic over the prompt. It exists so the
// narration instruction can name what the user asked for; the fallback case
// covers everything else.
func ClassifyGenre(prompt string) Genre {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "poem"):
		return GenrePoem
	case strings.Contains(p, "song"), strings.Contains(p, "lyrics"):
		return GenreSong
	case strings.Contains(p, "story"):
		return GenreStory
	}
	return GenreDefault
}

// narrationPrompt steers the text upstream toward narration-ready output
// with no framing or commentary around it.
func narrationPrompt(genre Genre, prompt string) string {
	return fmt.Sprintf(`Generate ONLY the %[1]s based on this request: %[2]s

Important instructions:
- Output ONLY the %[1]s itself
- Do NOT include any introduction, explanation, title, or commentary
- Do NOT say things like "Here is a poem" or "This is about"
- Start directly with the %[1]s content
- Keep it concise and suitable for audio narration (2-3 verses/paragraphs max)
- Make it engaging and creative`, genre, prompt)
}

// mindMapPrompt asks the text upstream for a structured mind map. The rules
// describe the desired graph (8-12 nodes, one central topic, connected
// branches); compliance is encouraged here rather than enforced after
// parsing.
func mindMapPrompt(topic string) string {
	return fmt.Sprintf(`Create a well-structured mind map for: "%[1]s"

Generate ONLY a JSON object with this EXACT structure (no markdown, no explanation):

{
  "nodes": [
    {"id": "node-1", "type": "topicNode", "data": {"label": "%[1]s", "description": "Central Topic"}, "position": {"x": 0, "y": 0}},
    {"id": "node-2", "type": "ideaNode", "data": {"label": "Concept 1", "description": "Description"}, "position": {"x": 0, "y": 0}},
    {"id": "node-3", "type": "ideaNode", "data": {"label": "Concept 2", "description": "Description"}, "position": {"x": 0, "y": 0}}
  ],
  "edges": [
    {"id": "e1-2", "source": "node-1", "target": "node-2"},
    {"id": "e1-3", "source": "node-1", "target": "node-3"}
  ]
}

RULES:
1. Create 8-12 nodes total
2. Node 1 = topicNode with main topic
3. Nodes 2-5 = main branches from center (use ideaNode or processNode)
4. Remaining nodes = sub-branches from main nodes
5. Create edges from center to main branches AND from main branches to sub-branches
6. Use node types: topicNode (center only), ideaNode (most nodes), processNode (methods/steps), decisionNode (choices)
7. Labels: 2-4 words max
8. Descriptions: 5-10 words
9. Position values don't matter (will be auto-arranged)
10. Return ONLY the JSON object, no markdown code blocks, no extra text`, topic)
}
