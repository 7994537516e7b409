package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-analyzer/internal/analysis"
	"workflow-analyzer/internal/common/config"
	apperrors "workflow-analyzer/internal/common/errors"
	"workflow-analyzer/internal/common/logger"
)

// recordingAnalyzer returns a canned outcome and remembers what it was given.
type recordingAnalyzer struct {
	calls   []string
	outcome *analysis.Outcome
}

func (a *recordingAnalyzer) Execute(ctx context.Context, content string) *analysis.Outcome {
	a.calls = append(a.calls, content)
	return a.outcome
}

var testUI = config.UIConfig{
	Title:       "AI 智能分析助手",
	Heading:     "文章情緒摘要分析器",
	DefaultText: config.DefaultText,
}

func newTestServer(t *testing.T, a Analyzer) http.Handler {
	return NewServer(a, testUI, logger.NewTestLogger(t)).Routes()
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, &recordingAnalyzer{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>AI 智能分析助手</title>")
	assert.Contains(t, body, "文章情緒摘要分析器")
	assert.Contains(t, body, config.DefaultText)
	assert.Contains(t, body, "🚀 開始分析")
	assert.Contains(t, body, "<strong>n8n Workflow</strong>")
	assert.NotContains(t, body, "開發者模式")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv := newTestServer(t, &recordingAnalyzer{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeForm_NormalizesLineBreaks(t *testing.T) {
	a := &recordingAnalyzer{outcome: &analysis.Outcome{
		State:   analysis.StateRejected,
		Message: analysis.MsgInputTooShort,
	}}
	srv := newTestServer(t, a)

	form := url.Values{"content": {"line one\r\nline two"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"line one\nline two"}, a.calls)
	assert.Contains(t, rec.Body.String(), `class="alert warning"`)
	assert.Contains(t, rec.Body.String(), "line one\nline two</textarea>")
}

func TestAnalyzeForm_EscapesInput(t *testing.T) {
	a := &recordingAnalyzer{outcome: &analysis.Outcome{State: analysis.StateRejected}}
	srv := newTestServer(t, a)

	form := url.Values{"content": {"<script>x</script>"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

// stubWorkflow stands in for the external automation webhook.
func stubWorkflow(t *testing.T, status int, body string) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newAnalysisHandler(t *testing.T, webhook string) *analysis.Handler {
	return analysis.NewHandler(
		&analysis.Config{WebhookURL: webhook, Timeout: 5 * time.Second},
		nil,
		logger.NewTestLogger(t),
		nil,
	)
}

func postForm(srv http.Handler, content string) *httptest.ResponseRecorder {
	form := url.Values{"content": {content}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeForm_RendersResult(t *testing.T) {
	webhook := stubWorkflow(t, http.StatusOK,
		`{"output":{"sentiment":"Positive","summary":"**S**","topics":["a","b"],"keyInsights":["x"]}}`)
	srv := newTestServer(t, newAnalysisHandler(t, webhook))

	rec := postForm(srv, "This article is long enough to analyze.")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, analysis.MsgCompleted)
	assert.Contains(t, body, "😊 整體情緒：正向 (positive)")
	assert.Contains(t, body, "<strong>S</strong>")
	assert.Contains(t, body, `<code class="chip">a</code><code class="chip">b</code>`)
	assert.Contains(t, body, "<li>x</li>")
	assert.Contains(t, body, "🔍 開發者模式：查看原始 JSON")
}

func TestAnalyzeForm_SanitizesWorkflowMarkup(t *testing.T) {
	webhook := stubWorkflow(t, http.StatusOK,
		`{"summary":"ok <script>alert(1)</script>","topics":["<b>t</b>"],"keyInsights":["<img src=x onerror=alert(1)>"]}`)
	srv := newTestServer(t, newAnalysisHandler(t, webhook))

	body := postForm(srv, "This article is long enough to analyze.").Body.String()

	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.NotContains(t, body, "onerror=alert(1)>")
	assert.Contains(t, body, "&lt;b&gt;t&lt;/b&gt;")
}

func TestAnalyzeForm_RendersBlobs(t *testing.T) {
	webhook := stubWorkflow(t, http.StatusOK,
		`{"summary":"S","topics":"t1, t2","keyInsights":"- **one**\n- two"}`)
	srv := newTestServer(t, newAnalysisHandler(t, webhook))

	body := postForm(srv, "This article is long enough to analyze.").Body.String()

	assert.Contains(t, body, `<div class="blob">t1, t2</div>`)
	assert.NotContains(t, body, `<code class="chip">`)
	assert.Contains(t, body, "<li><strong>one</strong></li>")
	assert.Contains(t, body, "<li>two</li>")
}

func TestAnalyzeForm_EmptyTopicsBlob(t *testing.T) {
	webhook := stubWorkflow(t, http.StatusOK, `{"summary":"S","topics":""}`)
	srv := newTestServer(t, newAnalysisHandler(t, webhook))

	body := postForm(srv, "This article is long enough to analyze.").Body.String()

	assert.Contains(t, body, `<div class="blob"></div>`)
	assert.Contains(t, body, "<ul></ul>")
}

func TestAnalyzeForm_ServerError(t *testing.T) {
	webhook := stubWorkflow(t, http.StatusNotFound, "no webhook")
	srv := newTestServer(t, newAnalysisHandler(t, webhook))

	body := postForm(srv, "This article is long enough to analyze.").Body.String()

	assert.Contains(t, body, "❌ 伺服器錯誤：狀態碼 404")
	assert.Contains(t, body, "<pre>no webhook</pre>")
	assert.NotContains(t, body, "開發者模式")
}

func TestAnalyzeForm_TransportErrorShowsHint(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	srv := newTestServer(t, newAnalysisHandler(t, dead.URL))

	body := postForm(srv, "This article is long enough to analyze.").Body.String()

	assert.Contains(t, body, "❌ 發生連線錯誤：")
	assert.Contains(t, body, "Execute Workflow")
}

func TestAnalyzeAPI(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		content    string
		wantStatus int
		wantState  analysis.State
	}{
		{"rendered", http.StatusOK, `{"summary":"S"}`, "long enough content", http.StatusOK, analysis.StateRendered},
		{"too short", http.StatusOK, `{}`, "short", http.StatusUnprocessableEntity, analysis.StateRejected},
		{"server error", http.StatusInternalServerError, `boom`, "long enough content", http.StatusBadGateway, analysis.StateServerError},
		{"format error", http.StatusOK, `not json`, "long enough content", http.StatusBadGateway, analysis.StateFormatError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			webhook := stubWorkflow(t, tt.status, tt.body)
			srv := newTestServer(t, newAnalysisHandler(t, webhook))

			payload, _ := json.Marshal(analysis.AnalysisRequest{Content: tt.content})
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(string(payload)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var out analysis.Outcome
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, tt.wantState, out.State)
			assert.NotEmpty(t, out.RequestID)
		})
	}
}

func TestAnalyzeAPI_BadBody(t *testing.T) {
	a := &recordingAnalyzer{}
	srv := newTestServer(t, a)

	for _, body := range []string{"", "{not json", `"just a string"`} {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, apperrors.ErrCodeInvalidRequestBody, resp.Error.Code)
	}
	assert.Empty(t, a.calls)
}

func TestOpsEndpoints(t *testing.T) {
	srv := newTestServer(t, &recordingAnalyzer{})

	for path, want := range map[string]string{"/health": "healthy", "/ready": "ready"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, want, resp["status"])
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
