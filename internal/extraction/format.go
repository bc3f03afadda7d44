package extraction

import (
	"fmt"
	"strings"
)

// maxListedFormFields bounds the form-field listing in formatted output.
// Consumers rely on the truncation point for deterministic snippets.
const maxListedFormFields = 10

// Format renders an outcome as the uniform text block sent onward to the
// model. It is a pure function: all structure lives in the outcome, and only
// this file touches presentation text.
func Format(outcome Outcome, fileName string) string {
	if !outcome.OK() {
		return formatFailure(outcome.Failure, fileName)
	}

	switch outcome.Method {
	case MethodVisionDescription:
		return "🖼️ **IMAGE ANALYSIS:**\n" + outcome.Text
	case MethodTranscription:
		return "🎙️ **TRANSCRIBED CONTENT (" + outcome.Method.Label() + "):**\n\n" + outcome.Text
	case MethodGenericTextLayer:
		return formatTextLayer(outcome)
	default:
		return formatAnalysis(outcome)
	}
}

// formatAnalysis renders a structured/basic analysis success: text body,
// a capped form-field listing, table count, then the stats footer.
func formatAnalysis(o Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📝 **EXTRACTED TEXT (%s):**\n\n%s\n", o.Method.Label(), o.Text)

	if len(o.FormFields) > 0 {
		listed := o.FormFields
		if len(listed) > maxListedFormFields {
			listed = listed[:maxListedFormFields]
		}
		fmt.Fprintf(&b, "\n🔑 **FORM FIELDS DETECTED:**\n%s\n", strings.Join(listed, "\n"))
		if extra := len(o.FormFields) - maxListedFormFields; extra > 0 {
			fmt.Fprintf(&b, "... and %d more %s\n", extra, pluralize("field", extra))
		}
	}

	if o.Stats.TableCount > 0 {
		b.WriteString("\n📊 **TABLES DETECTED:**\n")
		for i := 1; i <= o.Stats.TableCount; i++ {
			fmt.Fprintf(&b, "Table %d detected\n", i)
		}
	}

	b.WriteString("\n📈 **EXTRACTION SUMMARY:**\n")
	fmt.Fprintf(&b, "• Method: %s\n", o.Method.Label())
	fmt.Fprintf(&b, "• Total blocks: %d\n", o.Stats.BlockCount)
	fmt.Fprintf(&b, "• Text lines: %d\n", o.Stats.LineCount)
	fmt.Fprintf(&b, "• Estimated words: %d\n", o.Stats.WordEstimate)
	fmt.Fprintf(&b, "• Tables found: %d\n", o.Stats.TableCount)
	fmt.Fprintf(&b, "• Form fields: %d", o.Stats.FormFieldCount)

	return b.String()
}

// formatTextLayer renders a fallback-parser success with the page-oriented
// footer.
func formatTextLayer(o Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📝 **EXTRACTED TEXT (%s):**\n\n%s\n\n", o.Method.Label(), o.Text)
	b.WriteString("📈 **EXTRACTION SUMMARY:**\n")
	fmt.Fprintf(&b, "• Method: %s\n", o.Method.Label())
	fmt.Fprintf(&b, "• Pages: %d\n", o.Stats.PageCount)
	fmt.Fprintf(&b, "• Characters: %d\n", o.Stats.CharCount)
	fmt.Fprintf(&b, "• Words: %d\n", o.Stats.WordEstimate)
	b.WriteString("• Status: ✅ Successfully extracted using fallback method")

	return b.String()
}

// formatFailure renders the diagnostic block for a file no method could
// read. The block is intentionally still sent to the model so it can reason
// about the failure instead of silently omitting the file.
func formatFailure(f *Failure, fileName string) string {
	var b strings.Builder

	b.WriteString("❌ **EXTRACTION FAILED**\n\n")
	fmt.Fprintf(&b, "📄 **File:** %s\n\n", fileName)

	if len(f.Attempted) > 0 {
		b.WriteString("🔍 **Attempted Methods:**\n")
		for i, m := range f.Attempted {
			detail := "Failed"
			if i < len(f.Details) {
				detail = f.Details[i]
			}
			fmt.Fprintf(&b, "%d. ❌ %s - %s\n", i+1, m.Label(), detail)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "⚠️ **Issue:** %s\n\n", f.Message)

	b.WriteString("💡 **Suggestions:**\n")
	b.WriteString("• Try converting the file to a different format\n")
	b.WriteString("• Ensure the document is not password-protected or DRM-locked\n")
	b.WriteString("• Check that the file contains extractable content (not scanned images)\n")
	b.WriteString("• Consider uploading an OCR-enabled version of the document\n")

	if last := lastDetails(f.Details, 2); len(last) > 0 {
		b.WriteString("\n🔧 **Technical Details:**\n")
		if len(last) == 2 {
			fmt.Fprintf(&b, "• Primary error: %s\n", last[0])
			fmt.Fprintf(&b, "• Fallback error: %s\n", last[1])
		} else {
			fmt.Fprintf(&b, "• Error: %s\n", last[0])
		}
	}

	b.WriteString("\nThe AI will proceed with analysis using the filename and any other available context.")

	return b.String()
}

func lastDetails(details []string, n int) []string {
	if len(details) <= n {
		return details
	}
	return details[len(details)-n:]
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
