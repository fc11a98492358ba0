package llm

import (
	"fmt"
	"strings"

	"claimdesk/internal/model"
)

const systemPrompt = `You help fact-checking moderators. You extract concise, checkable factual claims from news articles and answer with JSON only.`

const userPrompt = `Extract 2-3 concise factual claims from the article context below.
Output JSON only, with shape:
{"suggestions":[{"claim_text":"...","verdict":"supported|partial|not_supported|unverifiable","evidence_url":""}]}

Context:
%s`

// BuildMessages renders the chat for one article.
func BuildMessages(a model.Article) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(userPrompt, articleContext(a))},
	}
}

func articleContext(a model.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Outlet: %s\n", orNA(a.Outlet))
	fmt.Fprintf(&sb, "Headline: %s\n", orNA(a.Headline))
	fmt.Fprintf(&sb, "URL: %s\n", orNA(a.URL))
	fmt.Fprintf(&sb, "Summary: %s", orNA(a.Summary()))
	return sb.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
