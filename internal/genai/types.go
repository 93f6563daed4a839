package genai

import (
	"time"
)

// Capability identifies one of the supported generation types
type Capability string

const (
	CapabilityChat    Capability = "chat"
	CapabilityImage   Capability = "image"
	CapabilityAudio   Capability = "audio"
	CapabilityMindMap Capability = "mindmap"
)

// GenerationRequest carries a validated prompt through the fallback pipeline.
// It is constructed once per incoming request and never mutated.
type GenerationRequest struct {
	Capability Capability
	Prompt     string
	Options    map[string]any
}

// EndpointVariant selects one of the URL forms a provider exposes for the
// same model (API version for the text upstream, pipeline vs generic models
// endpoint for the image upstream).
type EndpointVariant string

const (
	// Text upstream API versions
	VariantV1Beta EndpointVariant = "v1beta"
	VariantV1     EndpointVariant = "v1"

	// Image upstream URL forms
	VariantPipeline EndpointVariant = "pipeline"
	VariantModels   EndpointVariant = "models"
)

// Candidate is one concrete (provider, model, endpoint variant) combination
// attempted during fallback resolution. List order encodes preference.
type Candidate struct {
	Provider string
	Model    string
	Variant  EndpointVariant
}

func (c Candidate) String() string {
	return c.Provider + "/" + c.Model + "@" + string(c.Variant)
}

// Payload is the raw success body of a provider call, before normalization.
type Payload struct {
	Body        []byte
	ContentType string
}

// OutcomeKind tags the result of a single provider attempt
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRetryable
	OutcomeTerminal
)

// AttemptOutcome is the classified result of one provider call. Provider
// clients never let raw transport errors escape; everything becomes one of
// these and the orchestrator drives its control flow off the kind.
type AttemptOutcome struct {
	Kind    OutcomeKind
	Payload *Payload
	Reason  string
	Err     *Error
}

// SuccessOutcome wraps a provider success body
func SuccessOutcome(p *Payload) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeSuccess, Payload: p}
}

// RetryableOutcome records a failure that the orchestrator may recover from
// by moving on to the next candidate.
func RetryableOutcome(reason string) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeRetryable, Reason: reason}
}

// TerminalOutcome aborts the whole fallback chain (e.g. a rejected
// credential, which no other candidate on the same key can fix).
func TerminalOutcome(err *Error) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeTerminal, Reason: err.Message, Err: err}
}

// AudioResult is the canonical audio capability response
type AudioResult struct {
	AudioDataURL  string `json:"audio"`
	NarrationText string `json:"text"`
	Prompt        string `json:"prompt"`
}

// NodeKind classifies a mind map node. The wire names match what the
// upstream model is prompted to emit.
type NodeKind string

const (
	NodeKindTopic    NodeKind = "topicNode"
	NodeKindIdea     NodeKind = "ideaNode"
	NodeKindProcess  NodeKind = "processNode"
	NodeKindDecision NodeKind = "decisionNode"
)

// Node is a single mind map node
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"type"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// Edge connects two mind map nodes by id
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// MindMap is the canonical mind map capability response
type MindMap struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GenerationEvent describes a completed facade call, published to the event
// bus for downstream consumers. Fire-and-forget.
type GenerationEvent struct {
	Capability Capability `json:"capability"`
	Model      string     `json:"model,omitempty"`
	Outcome    string     `json:"outcome"` // success, degraded, failed
	DurationMS int64      `json:"duration_ms"`
	At         time.Time  `json:"at"`
}

// Publisher receives generation events. Implementations must not block the
// request path; failures are logged, never surfaced.
type Publisher interface {
	PublishGeneration(ev GenerationEvent)
}
