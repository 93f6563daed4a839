package genai

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// CandidateFailure pairs a failed candidate with the reason it failed
type CandidateFailure struct {
	Candidate Candidate
	Reason    string
}

// ExhaustedError is returned when every candidate in the list failed with a
// retryable failure. It keeps one reason per candidate, in candidate order.
type ExhaustedError struct {
	Failures []CandidateFailure
}

func (e *ExhaustedError) Error() string {
	return "all candidates failed: " + e.Detail()
}

// Detail renders the per-candidate diagnostic string surfaced to callers
func (e *ExhaustedError) Detail() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Candidate.String()+": "+f.Reason)
	}
	return strings.Join(parts, "; ")
}

// Orchestrator drives an ordered candidate list through a provider client.
// Candidates are tried strictly sequentially: fanning out in parallel would
// burn quota on providers that charge per call.
type Orchestrator struct {
	logger *zap.Logger
}

func NewOrchestrator(logger *zap.Logger) *Orchestrator {
	return &Orchestrator{logger: logger}
}

// Resolve attempts each candidate in order until one succeeds. A terminal
// failure aborts immediately without touching the remaining candidates; a
// retryable failure is recorded and the next candidate tried. Exhaustion
// returns an *ExhaustedError carrying every recorded reason.
func (o *Orchestrator) Resolve(ctx context.Context, client ProviderClient, candidates []Candidate, req *GenerationRequest) (*Payload, error) {
	if len(candidates) == 0 {
		return nil, NewConfigurationError("no candidates configured for capability " + string(req.Capability))
	}

	var failures []CandidateFailure
	for _, cand := range candidates {
		out := client.Invoke(ctx, cand, req)
		attemptsTotal.WithLabelValues(string(req.Capability), outcomeLabel(out.Kind)).Inc()

		switch out.Kind {
		case OutcomeSuccess:
			o.logger.Debug("candidate succeeded",
				zap.String("capability", string(req.Capability)),
				zap.String("candidate", cand.String()),
			)
			return out.Payload, nil
		case OutcomeTerminal:
			o.logger.Warn("aborting fallback chain",
				zap.String("capability", string(req.Capability)),
				zap.String("candidate", cand.String()),
				zap.String("reason", out.Reason),
			)
			return nil, out.Err
		default:
			failures = append(failures, CandidateFailure{Candidate: cand, Reason: out.Reason})
			o.logger.Warn("candidate failed, trying next",
				zap.String("capability", string(req.Capability)),
				zap.String("candidate", cand.String()),
				zap.String("reason", out.Reason),
			)
		}
	}

	exhaustedTotal.WithLabelValues(string(req.Capability)).Inc()
	return nil, &ExhaustedError{Failures: failures}
}

func outcomeLabel(k OutcomeKind) string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "retryable"
	}
}
