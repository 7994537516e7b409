package analysis

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var htmlPolicy = bluemonday.UGCPolicy()

// ClassifySentiment lower-cases s and matches it by substring. "positive"
// wins over "negative" when both appear.
func ClassifySentiment(s string) (string, Tone) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "positive"):
		return lower, TonePositive
	case strings.Contains(lower, "negative"):
		return lower, ToneNegative
	default:
		return lower, ToneNeutral
	}
}

func sentimentLabel(sentiment string, tone Tone) string {
	switch tone {
	case TonePositive:
		return fmt.Sprintf(LabelPositive, sentiment)
	case ToneNegative:
		return fmt.Sprintf(LabelNegative, sentiment)
	default:
		return fmt.Sprintf(LabelNeutral, sentiment)
	}
}

// Render turns a result into display fields, applying each field's default
// on its own.
func Render(r AnalysisResult) View {
	sentiment, tone := ClassifySentiment(r.SentimentOrDefault())
	summary := r.SummaryOrDefault()

	v := View{
		Sentiment:      sentiment,
		Tone:           tone,
		SentimentLabel: sentimentLabel(sentiment, tone),
		Summary:        summary,
		SummaryHTML:    Markdown(summary),
		Topics:         []string{},
		KeyInsights:    []string{},
	}

	if r.Topics.IsList {
		v.Topics = r.Topics.Items
	} else if r.Topics.IsBlob {
		v.TopicsBlob = r.Topics.Blob
		v.TopicsIsBlob = true
	}

	if r.KeyInsights.IsList {
		v.KeyInsights = r.KeyInsights.Items
		v.KeyInsightsHTML = make([]template.HTML, 0, len(r.KeyInsights.Items))
		for _, item := range r.KeyInsights.Items {
			v.KeyInsightsHTML = append(v.KeyInsightsHTML, inlineMarkdown(item))
		}
	} else if r.KeyInsights.IsBlob {
		v.KeyInsightsBlob = r.KeyInsights.Blob
		v.KeyInsightsBlobHTML = Markdown(r.KeyInsights.Blob)
		v.KeyInsightsIsBlob = true
	}

	return v
}

// Markdown renders workflow-supplied Markdown to sanitized HTML.
func Markdown(src string) template.HTML {
	unsafe := blackfriday.Run([]byte(src), blackfriday.WithExtensions(blackfriday.CommonExtensions))
	return template.HTML(htmlPolicy.SanitizeBytes(unsafe))
}

// inlineMarkdown renders a single line without the wrapping paragraph so it
// can sit inside a list item.
func inlineMarkdown(src string) template.HTML {
	out := strings.TrimSpace(string(Markdown(src)))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}
