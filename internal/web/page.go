package web

import (
	"bytes"
	"html/template"

	"workflow-analyzer/internal/analysis"
)

// PageData feeds the analyzer page. Outcome is nil before the first action.
type PageData struct {
	Title   string
	Heading string
	Intro   template.HTML
	Content string
	Outcome *analysis.Outcome
}

func (d PageData) Rendered() bool {
	return d.Outcome != nil && d.Outcome.State == analysis.StateRendered
}

// Warning reports whether the outcome message is a user mistake rather than
// a failure.
func (d PageData) Warning() bool {
	return d.Outcome != nil && d.Outcome.State == analysis.StateRejected
}

var introHTML = analysis.Markdown("連接 **n8n Workflow**，輸入文章後，AI 將自動進行摘要、情緒分析與重點提取。")

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="zh-Hant">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      :root {
        --bg: #ffffff;
        --panel: #f6f7fb;
        --text: #262730;
        --muted: #6b7080;
        --border: rgba(49, 51, 63, 0.15);
        --accent: #ff4b4b;
        --good: #21c354;
        --warn: #faca2b;
        --bad: #ff2b2b;
        --info: #1c83e1;
        --mono: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", monospace;
        --sans: "Source Sans Pro", ui-sans-serif, system-ui, -apple-system, "Noto Sans TC", sans-serif;
      }
      * { box-sizing: border-box; }
      body { margin: 0; font-family: var(--sans); color: var(--text); background: var(--bg); }
      main { max-width: 1200px; margin: 0 auto; padding: 32px 24px; }
      .columns { display: grid; grid-template-columns: 1fr 1fr; gap: 32px; }
      @media (max-width: 800px) { .columns { grid-template-columns: 1fr; } }
      textarea {
        width: 100%; height: 300px; padding: 12px; font: inherit;
        border: 1px solid var(--border); border-radius: 8px; background: var(--panel); resize: vertical;
      }
      button {
        width: 100%; margin-top: 12px; padding: 10px; font: inherit; font-weight: 600;
        color: #fff; background: var(--accent); border: 0; border-radius: 8px; cursor: pointer;
      }
      .alert { padding: 12px 16px; border-radius: 8px; margin-bottom: 12px; }
      .alert.success { background: rgba(33,195,84,0.12); color: #177233; }
      .alert.warning { background: rgba(250,202,43,0.18); color: #926c05; }
      .alert.error { background: rgba(255,43,43,0.10); color: #7d353b; }
      .alert.info { background: rgba(28,131,225,0.10); color: #004280; }
      .alert.neutral { background: var(--panel); }
      pre { font-family: var(--mono); background: var(--panel); padding: 12px; border-radius: 8px; overflow: auto; white-space: pre-wrap; }
      code.chip { font-family: var(--mono); background: var(--panel); color: #09ab3b; padding: 2px 6px; border-radius: 4px; margin-right: 6px; }
      hr { border: 0; border-top: 1px solid var(--border); margin: 16px 0; }
      details summary { cursor: pointer; color: var(--muted); }
    </style>
  </head>
  <body>
    <main>
      <h1>🤖 {{.Heading}}</h1>
      <div>{{.Intro}}</div>
      <div class="columns">
        <section>
          <h3>📥 輸入文章</h3>
          <form method="post" action="/analyze">
            <label for="content">內容：</label>
            <textarea id="content" name="content">{{.Content}}</textarea>
            <button type="submit">🚀 開始分析</button>
          </form>
        </section>
        <section>
          <h3>📊 分析結果</h3>
          {{- with .Outcome}}
          {{- if $.Rendered}}
          <div class="alert success">{{.Message}}</div>
          {{- else if $.Warning}}
          <div class="alert warning">{{.Message}}</div>
          {{- else}}
          <div class="alert error">{{.Message}}</div>
          {{- end}}
          {{- if .Hint}}
          <div class="alert info">{{.Hint}}</div>
          {{- end}}
          {{- if .RawText}}
          <pre>{{.RawText}}</pre>
          {{- end}}
          {{- with .View}}
          <div class="alert {{if eq .Tone "positive"}}success{{else if eq .Tone "negative"}}error{{else}}neutral{{end}}">{{.SentimentLabel}}</div>
          <hr />
          <h4>📝 重點摘要</h4>
          <div>{{.SummaryHTML}}</div>
          <h4>🏷️ 相關主題</h4>
          {{- if .TopicsIsBlob}}
          <div class="blob">{{.TopicsBlob}}</div>
          {{- else}}
          <div>{{range .Topics}}<code class="chip">{{.}}</code>{{end}}</div>
          {{- end}}
          <h4>💡 核心洞察</h4>
          {{- if .KeyInsightsIsBlob}}
          <div class="blob">{{.KeyInsightsBlobHTML}}</div>
          {{- else}}
          <ul>{{range .KeyInsightsHTML}}<li>{{.}}</li>{{end}}</ul>
          {{- end}}
          {{- end}}
          {{- if .RawJSON}}
          <details>
            <summary>🔍 開發者模式：查看原始 JSON</summary>
            <pre>{{.RawJSON}}</pre>
          </details>
          {{- end}}
          {{- end}}
        </section>
      </div>
    </main>
  </body>
</html>
`))

func renderPage(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
