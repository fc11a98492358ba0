// Package claims validates claim candidates and derives fallback candidates
// from article text.
package claims

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"claimdesk/internal/model"
)

const (
	// MaxSuggestions bounds every answer.
	MaxSuggestions = 3
	// MaxClaimLen bounds claim text, in characters.
	MaxClaimLen = 300
	// MaxEvidenceLen bounds the evidence field, in characters.
	MaxEvidenceLen = 400
)

// Candidate is an unvalidated claim from any origin.
type Candidate struct {
	Text     string
	Verdict  string
	Evidence string
}

// Validate sanitizes candidates in order: text and evidence are trimmed and
// truncated, unknown or missing verdicts become unverifiable, empty and
// repeated texts are dropped, and at most MaxSuggestions are returned.
func Validate(cands []Candidate) []model.ClaimSuggestion {
	out := make([]model.ClaimSuggestion, 0, MaxSuggestions)
	seen := make(map[string]bool, len(cands))

	for _, c := range cands {
		if len(out) == MaxSuggestions {
			break
		}
		text := strings.TrimSpace(lo.Substring(strings.TrimSpace(c.Text), 0, MaxClaimLen))
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true

		out = append(out, model.ClaimSuggestion{
			ClaimText:   text,
			Verdict:     NormalizeVerdict(c.Verdict),
			EvidenceURL: strings.TrimSpace(lo.Substring(strings.TrimSpace(c.Evidence), 0, MaxEvidenceLen)),
		})
	}
	return out
}

// NormalizeVerdict lower-cases v and maps anything outside the enum to unverifiable.
func NormalizeVerdict(v string) model.Verdict {
	verdict := model.Verdict(strings.ToLower(strings.TrimSpace(v)))
	if lo.Contains(model.Verdicts, verdict) {
		return verdict
	}
	return model.VerdictUnverifiable
}

// FromJSON reads candidates from an untyped JSON value. It accepts a bare
// array or an object holding the array under "suggestions" or "claims".
// Elements may be objects (claim_text|text|claim, verdict, evidence_url|evidence)
// or plain strings. ok is false when no candidate array is present.
func FromJSON(v any) (cands []Candidate, ok bool) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		for _, key := range []string{"suggestions", "claims"} {
			if arr, isArr := t[key].([]any); isArr {
				items, ok = arr, true
				break
			}
		}
		if !ok {
			return nil, false
		}
	default:
		return nil, false
	}

	for _, item := range items {
		switch e := item.(type) {
		case string:
			cands = append(cands, Candidate{Text: e})
		case map[string]any:
			cands = append(cands, Candidate{
				Text:     firstField(e, "claim_text", "text", "claim"),
				Verdict:  firstField(e, "verdict"),
				Evidence: firstField(e, "evidence_url", "evidence"),
			})
		}
	}
	return cands, true
}

// firstField returns the first non-empty scalar among keys, formatted as text.
func firstField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		case float64, bool:
			return fmt.Sprint(v)
		}
	}
	return ""
}
