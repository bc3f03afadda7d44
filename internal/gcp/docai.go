package gcp

import (
	"context"
	"fmt"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docsmith/docchat/internal/extraction"
)

type DocumentAnalyzerConfig struct {
	ProjectID             string
	Location              string
	StructuredProcessorID string
	OCRProcessorID        string
	ProcessorVersion      string
	Bucket                string
}

// DocumentAnalyzer runs uploads through Document AI. Structured mode uses
// the form-parser processor; text-only mode uses the plain OCR processor.
type DocumentAnalyzer struct {
	client *documentai.DocumentProcessorClient
	config DocumentAnalyzerConfig
}

func NewDocumentAnalyzer(ctx context.Context, config DocumentAnalyzerConfig) (*DocumentAnalyzer, error) {
	if config.ProjectID == "" || config.Location == "" {
		return nil, fmt.Errorf("NewDocumentAnalyzer: projectID and location cannot be empty")
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &DocumentAnalyzer{client: client, config: config}, nil
}

func (a *DocumentAnalyzer) Close() error {
	return a.client.Close()
}

// Analyze processes a stored document and flattens the response into lines,
// form fields, and counts. Errors carry a classified kind so callers can
// decide whether a simpler processor is worth trying.
func (a *DocumentAnalyzer) Analyze(ctx context.Context, storageKey string, mode extraction.AnalysisMode) (*extraction.Analysis, error) {
	req := &documentaipb.ProcessRequest{
		Name: a.processorName(mode),
		Source: &documentaipb.ProcessRequest_GcsDocument{
			GcsDocument: &documentaipb.GcsDocument{
				GcsUri:   fmt.Sprintf("gs://%s/%s", a.config.Bucket, storageKey),
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := a.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, extraction.NewServiceError(classifyGRPCError(err), fmt.Errorf("documentai ProcessDocument: %w", err))
	}
	if resp == nil || resp.Document == nil {
		return nil, extraction.Errorf(extraction.KindExternalServiceError, "documentai returned an empty document")
	}

	return flattenDocument(resp.Document), nil
}

func (a *DocumentAnalyzer) processorName(mode extraction.AnalysisMode) string {
	processorID := a.config.StructuredProcessorID
	if mode == extraction.AnalyzeTextOnly {
		processorID = a.config.OCRProcessorID
	}
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", a.config.ProjectID, a.config.Location, processorID)
	if a.config.ProcessorVersion != "" {
		return base + "/processorVersions/" + a.config.ProcessorVersion
	}
	return base
}

func flattenDocument(doc *documentaipb.Document) *extraction.Analysis {
	analysis := &extraction.Analysis{PageCount: len(doc.Pages)}

	for _, page := range doc.Pages {
		if page == nil {
			continue
		}
		analysis.BlockCount += len(page.Blocks)
		analysis.TableCount += len(page.Tables)

		for _, line := range page.Lines {
			if line == nil || line.Layout == nil {
				continue
			}
			text := strings.TrimSpace(textFromAnchor(doc.Text, line.Layout.TextAnchor))
			if text != "" {
				analysis.Lines = append(analysis.Lines, text)
			}
		}

		for _, field := range page.FormFields {
			if field == nil {
				continue
			}
			var key, value string
			if field.FieldName != nil && field.FieldName.TextAnchor != nil {
				key = strings.TrimSpace(textFromAnchor(doc.Text, field.FieldName.TextAnchor))
			}
			if field.FieldValue != nil && field.FieldValue.TextAnchor != nil {
				value = strings.TrimSpace(textFromAnchor(doc.Text, field.FieldValue.TextAnchor))
			}
			if key == "" && value == "" {
				continue
			}
			analysis.FormFields = append(analysis.FormFields, strings.TrimSpace(fmt.Sprintf("%s: %s", key, value)))
		}
	}

	// Some processors populate doc.Text without structured page lines.
	if len(analysis.Lines) == 0 && strings.TrimSpace(doc.Text) != "" {
		for _, line := range strings.Split(doc.Text, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				analysis.Lines = append(analysis.Lines, trimmed)
			}
		}
	}

	return analysis
}

func textFromAnchor(full string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil || len(anchor.TextSegments) == 0 || full == "" {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.TextSegments {
		if seg == nil {
			continue
		}
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > len(full) {
			end = len(full)
		}
		if start >= end {
			continue
		}
		b.WriteString(full[start:end])
	}
	return b.String()
}

// classifyGRPCError sorts a Document AI failure into the kinds the cascade
// branches on. Only malformed-request and unsupported-format classes justify
// retrying with the simpler processor.
func classifyGRPCError(err error) extraction.ErrorKind {
	st, ok := status.FromError(err)
	if !ok {
		return extraction.KindExternalServiceError
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return extraction.KindInvalidParameters
	case codes.FailedPrecondition, codes.Unimplemented, codes.OutOfRange:
		return extraction.KindUnsupportedDocumentFormat
	default:
		return extraction.KindExternalServiceError
	}
}
