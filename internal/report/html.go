package report

import (
	"fmt"
	"html/template"
	"io"
)

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Label }} - PageSpeed Insights</title>
</head>
<body>
  <h1>PageSpeed Insights Results</h1>
  <p>Page tested: {{ .PageID }}</p>
  <h2>Chrome User Experience Report Results</h2>
{{- range .Categories }}
  <p>{{ .Name }}: {{ .Category }}</p>
{{- end }}
  <h2>Lighthouse Results</h2>
{{- range .Numerics }}
  <p>{{ .Name }}: {{ .Display }}</p>
{{- end }}
  <h2>This was run {{ .SampleCount }} times</h2>
</body>
</html>
`))

// RenderHTML writes report as a standalone HTML document.
func RenderHTML(w io.Writer, report *Report) error {
	if err := htmlReport.Execute(w, report); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}

	return nil
}
