package analysis

import (
	"html/template"

	apperrors "workflow-analyzer/internal/common/errors"
)

const (
	// MinContentLength is the shortest text, in characters, sent to the workflow.
	MinContentLength = 10

	SentimentUndetected = "未偵測"
	SummaryUnavailable  = "無法讀取摘要，請查看原始 JSON"
)

// User-facing messages.
const (
	MsgInputTooShort   = "⚠️ 內容太短，請輸入更多文字！"
	MsgCompleted       = "✅ 分析完成！"
	MsgInvalidFormat   = "❌ 回傳的不是 JSON 格式"
	MsgServerError     = "❌ 伺服器錯誤：狀態碼 %d"
	MsgConnectionError = "❌ 發生連線錯誤：%s"
	HintWorkflowReady  = "💡 提示：請確認 n8n 是否已按下 'Execute Workflow' 且處於 Waiting 狀態？"

	LabelPositive = "😊 整體情緒：正向 (%s)"
	LabelNegative = "😡 整體情緒：負向 (%s)"
	LabelNeutral  = "😐 整體情緒：中立 (%s)"
)

// AnalysisRequest is the only payload sent to the workflow.
type AnalysisRequest struct {
	Content string `json:"content"`
}

// ListField holds a value expected to be a JSON array. When the workflow
// sent something else it is kept as a single blob.
type ListField struct {
	Items  []string `json:"items,omitempty"`
	Blob   string   `json:"blob,omitempty"`
	IsList bool     `json:"isList"`
	IsBlob bool     `json:"isBlob"`
}

// Present reports whether the field carried anything other than null.
func (f ListField) Present() bool {
	return f.IsList || f.IsBlob
}

// AnalysisResult is the structured record the workflow is expected to
// return. Every field is optional.
type AnalysisResult struct {
	Sentiment   *string   `json:"sentiment,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	Topics      ListField `json:"topics"`
	KeyInsights ListField `json:"keyInsights"`
}

func (r AnalysisResult) SentimentOrDefault() string {
	if r.Sentiment == nil {
		return SentimentUndetected
	}
	return *r.Sentiment
}

func (r AnalysisResult) SummaryOrDefault() string {
	if r.Summary == nil {
		return SummaryUnavailable
	}
	return *r.Summary
}

// Missing lists the fields that will be rendered from their defaults.
func (r AnalysisResult) Missing() []string {
	var missing []string
	if r.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if r.Summary == nil {
		missing = append(missing, "summary")
	}
	if !r.Topics.Present() {
		missing = append(missing, "topics")
	}
	if !r.KeyInsights.Present() {
		missing = append(missing, "keyInsights")
	}
	return missing
}

// EnvelopeKind tags how the result candidate was resolved.
type EnvelopeKind string

const (
	// EnvelopeObject: the candidate was a JSON object.
	EnvelopeObject EnvelopeKind = "object"
	// EnvelopeJSONString: the candidate was a string holding a JSON object.
	EnvelopeJSONString EnvelopeKind = "json_string"
	// EnvelopeUnparseable: anything else; the result is empty.
	EnvelopeUnparseable EnvelopeKind = "unparseable"
)

// EnvelopeSource tells whether the candidate came from the output key.
type EnvelopeSource string

const (
	SourceOutput EnvelopeSource = "output"
	SourceRoot   EnvelopeSource = "root"
)

type Envelope struct {
	Kind   EnvelopeKind   `json:"kind"`
	Source EnvelopeSource `json:"source"`
	Result AnalysisResult `json:"result"`
	// Text is the candidate string when it could not be parsed.
	Text string `json:"text,omitempty"`
}

// Tone is the sentiment classification used for display.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// View is the display-ready form of an AnalysisResult.
type View struct {
	Sentiment      string `json:"sentiment"`
	Tone           Tone   `json:"tone"`
	SentimentLabel string `json:"sentimentLabel"`

	Summary     string        `json:"summary"`
	SummaryHTML template.HTML `json:"-"`

	Topics       []string `json:"topics"`
	TopicsBlob   string   `json:"topicsBlob,omitempty"`
	TopicsIsBlob bool     `json:"topicsIsBlob,omitempty"` // true even when the blob is ""

	KeyInsights         []string        `json:"keyInsights"`
	KeyInsightsHTML     []template.HTML `json:"-"`
	KeyInsightsBlob     string          `json:"keyInsightsBlob,omitempty"`
	KeyInsightsBlobHTML template.HTML   `json:"-"`
	KeyInsightsIsBlob   bool            `json:"keyInsightsIsBlob,omitempty"`
}

// Outcome is everything one analysis action produced. Nothing in it
// outlives the action.
type Outcome struct {
	RequestID  string                   `json:"requestId"`
	State      State                    `json:"state"`
	Trail      []State                  `json:"trail"`
	Message    string                   `json:"message,omitempty"`
	Hint       string                   `json:"hint,omitempty"`
	StatusCode int                      `json:"statusCode,omitempty"`
	RawText    string                   `json:"rawText,omitempty"`
	RawJSON    string                   `json:"rawJson,omitempty"`
	Envelope   *Envelope                `json:"envelope,omitempty"`
	View       *View                    `json:"view,omitempty"`
	Error      *apperrors.StandardError `json:"error,omitempty"`
	DurationMs int64                    `json:"durationMs"`
}
