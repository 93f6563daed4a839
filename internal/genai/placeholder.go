package genai

import (
	"fmt"
	"strings"
)

var svgEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// PlaceholderArt synthesizes a degraded stand-in image when every image
// candidate failed and placeholder mode is on. It embeds the prompt and the
// per-candidate failure reasons so the failure is visible, not silent.
// Returned with HTTP 200: this is a deliberate degraded result, not an
// error.
func PlaceholderArt(prompt string, failures []CandidateFailure) string {
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, f.Candidate.Model+": "+f.Reason)
	}

	svg := fmt.Sprintf("<svg xmlns='http://www.w3.org/2000/svg' width='768' height='480'>"+
		"<rect width='100%%' height='100%%' fill='#111827'/>"+
		"<text x='50%%' y='45%%' dominant-baseline='middle' text-anchor='middle' fill='#e5e7eb' font-size='20' font-family='sans-serif'>%s</text>"+
		"<text x='50%%' y='60%%' dominant-baseline='middle' text-anchor='middle' fill='#9ca3af' font-size='14' font-family='sans-serif'>%s</text>"+
		"</svg>",
		svgEscaper.Replace(prompt),
		svgEscaper.Replace(strings.Join(reasons, "; ")),
	)
	return "data:image/svg+xml;utf8," + svg
}

// MockArt is the deterministic art result used in mock mode
func MockArt(prompt string) string {
	svg := fmt.Sprintf("<svg xmlns='http://www.w3.org/2000/svg' width='512' height='320'>"+
		"<rect width='100%%' height='100%%' fill='black'/>"+
		"<text x='50%%' y='50%%' dominant-baseline='middle' text-anchor='middle' fill='white' font-size='20' font-family='sans-serif'>Mock Art: %s</text>"+
		"</svg>", svgEscaper.Replace(prompt))
	return "data:image/svg+xml;utf8," + svg
}
