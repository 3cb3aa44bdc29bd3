package domain

import "time"

// Report is a published research report whose file lives in S3 and whose
// metadata lives in DynamoDB.
type Report struct {
	ReportID    string    `json:"id" dynamodbav:"report_id"`
	Type        string    `json:"type" dynamodbav:"type"`
	Title       string    `json:"title" dynamodbav:"title"`
	Summary     string    `json:"summary" dynamodbav:"summary"`
	S3Key       string    `json:"-" dynamodbav:"s3_key"`
	PublishedAt time.Time `json:"published_at" dynamodbav:"published_at"`
}

// ReportMeta is the notification payload for a new report.
type ReportMeta struct {
	Type    string `json:"type" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary"`
}

// ReportTypes maps report type slugs to display names. Unknown slugs are
// rejected at publish/broadcast time.
var ReportTypes = map[string]string{
	"brasil":    "Ações Brasileiras",
	"global":    "Ações Globais",
	"quant":     "Swing & Position Trading",
	"opcoes":    "Multi-Estratégias com Opções",
	"longshort": "Operações Long/Short",
	"vectordi":  "Gestão Ativa de Renda Fixa",
	"graficos":  "Análise Técnica",
	"rendafixa": "Renda Fixa",
	"insights":  "Análise de Mercado",
}

// ReportTypeName returns the display name for a type slug, or the slug
// itself when unknown.
func ReportTypeName(slug string) string {
	if name, ok := ReportTypes[slug]; ok {
		return name
	}
	return slug
}
