package genai

// Default models, overridable through configuration. The chat default is the
// heavier model; narration and mind map generation default to the faster one.
const (
	DefaultChatModel    = "gemini-2.5-pro"
	DefaultContentModel = "gemini-2.5-flash"
	DefaultImageModel   = "stabilityai/stable-diffusion-xl-base-1.0"

	lastResortChatModel = "gemini-pro"
)

// Known-good image fallback models, tried after the configured one
var imageFallbackModels = []string{
	"stabilityai/sdxl-turbo",
	"black-forest-labs/FLUX.1-schnell",
	"runwayml/stable-diffusion-v1-5",
}

// TextCandidates builds the fallback ladder for the text upstream: the
// configured model on both API versions, then a hardcoded last resort. The
// versions accommodate provider API drift rather than different models.
func TextCandidates(model string, fallback string) []Candidate {
	if model == "" {
		model = fallback
	}
	return dedupeCandidates([]Candidate{
		{Provider: "gemini", Model: model, Variant: VariantV1Beta},
		{Provider: "gemini", Model: model, Variant: VariantV1},
		{Provider: "gemini", Model: lastResortChatModel, Variant: VariantV1Beta},
	})
}

// ImageCandidates builds the image fallback ladder: each model is attempted
// on the pipeline endpoint first and the generic models endpoint second.
func ImageCandidates(model string, allowFallback bool) []Candidate {
	if model == "" {
		model = DefaultImageModel
	}
	models := []string{model}
	if allowFallback {
		models = append(models, imageFallbackModels...)
	}

	var cands []Candidate
	for _, m := range models {
		cands = append(cands,
			Candidate{Provider: "huggingface", Model: m, Variant: VariantPipeline},
			Candidate{Provider: "huggingface", Model: m, Variant: VariantModels},
		)
	}
	return dedupeCandidates(cands)
}

// dedupeCandidates removes repeats while preserving order, so a configured
// model that already appears in the fallback table is only tried once per
// variant.
func dedupeCandidates(cands []Candidate) []Candidate {
	seen := make(map[Candidate]struct{}, len(cands))
	out := cands[:0]
	for _, c := range cands {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
