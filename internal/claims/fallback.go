package claims

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"claimdesk/internal/model"
)

// maxSentenceLen bounds each sentence taken from a summary.
const maxSentenceLen = 200

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// FromSummary proposes up to MaxSuggestions unverifiable claims, one per
// sentence of summary. An empty summary yields no candidates.
func FromSummary(summary string) []Candidate {
	var out []Candidate
	for _, s := range sentenceEnd.Split(summary, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, Candidate{
			Text:    lo.Substring(s, 0, maxSentenceLen),
			Verdict: string(model.VerdictUnverifiable),
		})
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Generic is the last-resort pair used when neither generation nor the summary
// produced a candidate: a check of the headline and a check of cited figures.
func Generic(headline string) []Candidate {
	return []Candidate{
		{
			Text:    fmt.Sprintf("The claim in the headline %q is accurate.", headline),
			Verdict: string(model.VerdictUnverifiable),
		},
		{
			Text:    "The figures and percentages cited are backed by official sources.",
			Verdict: string(model.VerdictPartial),
		},
	}
}
