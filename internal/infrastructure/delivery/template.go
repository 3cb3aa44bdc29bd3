package delivery

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/acesso-api/internal/domain"
)

// One template for both message kinds, parameterized by the payload.
// Keeping a single source avoids the near-identical copies this kind of
// handler tends to accumulate.
var emailTmpl = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="padding: 32px; background: #f9f9f9;">
    <h2 style="color: #333;">Olá {{.Name}}!</h2>
{{- if .Code}}
    <p style="color: #666;">Seu código de acesso:</p>
    <p style="font-size: 28px; letter-spacing: 6px; color: #333;"><strong>{{.Code}}</strong></p>
    <p style="color: #999; font-size: 13px;">O código expira em 30 minutos e vale para um único acesso.</p>
{{- else}}
    <p style="color: #666;">Um novo relatório está disponível para você.</p>
    <div style="background: white; padding: 24px; border-radius: 8px; margin-top: 16px;">
      <h3 style="color: #333;">{{.ReportTitle}}</h3>
      <p style="color: #666;">{{.ReportSummary}}</p>
    </div>
{{- end}}
  </div>
</div>`))

type emailData struct {
	Name          string
	Code          string
	ReportTitle   string
	ReportSummary string
}

func renderCodeEmail(name, code string) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, emailData{Name: name, Code: code}); err != nil {
		return "", "", fmt.Errorf("render code email: %w", err)
	}
	return "Seu Código de Acesso", buf.String(), nil
}

func renderReportEmail(name string, meta domain.ReportMeta) (subject, html string, err error) {
	var buf bytes.Buffer
	data := emailData{Name: name, ReportTitle: meta.Title, ReportSummary: meta.Summary}
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render report email: %w", err)
	}
	return fmt.Sprintf("Novo Relatório Disponível: %s", domain.ReportTypeName(meta.Type)), buf.String(), nil
}
