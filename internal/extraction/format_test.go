package extraction

import (
	"fmt"
	"strings"
	"testing"
)

func manyFields(n int) []string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = fmt.Sprintf("Field %d: value", i+1)
	}
	return fields
}

func TestFormatAnalysisSuccess(t *testing.T) {
	out := successOutcome(MethodAdvancedAnalysis, "line one\nline two", Stats{
		BlockCount:     5,
		LineCount:      2,
		WordEstimate:   4,
		TableCount:     2,
		FormFieldCount: 1,
	}, []string{"Invoice No: 42"})

	got := Format(out, "invoice.pdf")

	if !strings.Contains(got, "📝 **EXTRACTED TEXT (Advanced Document AI Analysis):**") {
		t.Errorf("missing text header:\n%s", got)
	}
	if !strings.Contains(got, "🔑 **FORM FIELDS DETECTED:**\nInvoice No: 42") {
		t.Errorf("missing form fields:\n%s", got)
	}
	if !strings.Contains(got, "Table 1 detected\nTable 2 detected") {
		t.Errorf("missing table listing:\n%s", got)
	}
	for _, line := range []string{
		"• Method: Advanced Document AI Analysis",
		"• Total blocks: 5",
		"• Text lines: 2",
		"• Estimated words: 4",
		"• Tables found: 2",
		"• Form fields: 1",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("summary missing %q:\n%s", line, got)
		}
	}
}

func TestFormatFormFieldTruncation(t *testing.T) {
	cases := []struct {
		fields     int
		wantSuffix string
		listed     int
	}{
		{fields: 9, wantSuffix: "", listed: 9},
		{fields: 10, wantSuffix: "", listed: 10},
		{fields: 11, wantSuffix: "... and 1 more field\n", listed: 10},
		{fields: 13, wantSuffix: "... and 3 more fields\n", listed: 10},
	}

	for _, tc := range cases {
		out := successOutcome(MethodAdvancedAnalysis, "text", Stats{FormFieldCount: tc.fields}, manyFields(tc.fields))
		got := Format(out, "f.pdf")

		if tc.wantSuffix == "" {
			if strings.Contains(got, "more field") {
				t.Errorf("%d fields: unexpected truncation suffix:\n%s", tc.fields, got)
			}
		} else if !strings.Contains(got, tc.wantSuffix) {
			t.Errorf("%d fields: want suffix %q:\n%s", tc.fields, tc.wantSuffix, got)
		}

		listed := strings.Count(got, ": value")
		if listed != tc.listed {
			t.Errorf("%d fields: want %d listed got %d", tc.fields, tc.listed, listed)
		}
	}
}

func TestFormatTextLayerFooter(t *testing.T) {
	out := successOutcome(MethodGenericTextLayer, "recovered text", Stats{
		PageCount:    4,
		CharCount:    14,
		WordEstimate: 2,
	}, nil)

	got := Format(out, "doc.pdf")
	for _, line := range []string{
		"📝 **EXTRACTED TEXT (PDF Text-Layer Parser (Fallback)):**",
		"• Pages: 4",
		"• Characters: 14",
		"• Words: 2",
		"• Status: ✅ Successfully extracted using fallback method",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "Total blocks") {
		t.Errorf("text-layer variant must not use the analysis footer:\n%s", got)
	}
}

func TestFormatImage(t *testing.T) {
	out := successOutcome(MethodVisionDescription, "a diagram of the system", Stats{}, nil)
	got := Format(out, "diagram.png")
	if got != "🖼️ **IMAGE ANALYSIS:**\na diagram of the system" {
		t.Errorf("unexpected image format: %q", got)
	}
}

func TestFormatFailureBlock(t *testing.T) {
	out := failureOutcome(
		[]Method{MethodAdvancedAnalysis, MethodBasicTextDetect, MethodGenericTextLayer},
		KindAllMethodsExhausted,
		`no extraction method could read "broken.pdf"`,
		[]string{"format rejected", "ocr down", "no text layer"},
	)

	got := Format(out, "broken.pdf")
	for _, line := range []string{
		"❌ **EXTRACTION FAILED**",
		"📄 **File:** broken.pdf",
		"1. ❌ Advanced Document AI Analysis - format rejected",
		"2. ❌ Basic Document AI Text Detection - ocr down",
		"3. ❌ PDF Text-Layer Parser (Fallback) - no text layer",
		"💡 **Suggestions:**",
		"🔧 **Technical Details:**",
		"• Primary error: ocr down",
		"• Fallback error: no text layer",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q:\n%s", line, got)
		}
	}
	if !strings.Contains(got, "The AI will proceed with analysis") {
		t.Errorf("missing trailing note:\n%s", got)
	}
}

func TestFormatFailureSingleDetail(t *testing.T) {
	out := failureOutcome([]Method{MethodVisionDescription}, KindExternalServiceError,
		"failed to analyze image", []string{"model unavailable"})

	got := Format(out, "pic.png")
	if !strings.Contains(got, "• Error: model unavailable") {
		t.Errorf("single detail should use the plain error line:\n%s", got)
	}
	if strings.Contains(got, "Fallback error") {
		t.Errorf("single detail must not claim a fallback error:\n%s", got)
	}
}
