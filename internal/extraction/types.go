package extraction

// Method identifies which extraction strategy produced (or failed to
// produce) a result.
type Method string

const (
	MethodAdvancedAnalysis  Method = "AdvancedDocumentAnalysis"
	MethodBasicTextDetect   Method = "BasicTextDetection"
	MethodGenericTextLayer  Method = "GenericTextLayerParser"
	MethodVisionDescription Method = "VisionDescription"
	MethodTranscription     Method = "SpeechTranscription"
	MethodUnsupported       Method = "Unsupported"
)

// Label returns the human-readable method name used in formatted summaries.
func (m Method) Label() string {
	switch m {
	case MethodAdvancedAnalysis:
		return "Advanced Document AI Analysis"
	case MethodBasicTextDetect:
		return "Basic Document AI Text Detection"
	case MethodGenericTextLayer:
		return "PDF Text-Layer Parser (Fallback)"
	case MethodVisionDescription:
		return "Gemini Vision Description"
	case MethodTranscription:
		return "Speech Transcription"
	default:
		return string(m)
	}
}

// Request is the transient per-file work item built at the start of batch
// processing. It is immutable and never persisted.
type Request struct {
	UploadID     string
	StorageKey   string
	MimeType     string
	OriginalName string
}

// Stats summarizes what a successful extraction produced. These feed the
// formatted summary only; no control flow depends on them.
type Stats struct {
	BlockCount     int
	LineCount      int
	WordEstimate   int
	TableCount     int
	FormFieldCount int
	PageCount      int
	CharCount      int
}

// Failure carries the diagnostic record of an unsuccessful extraction.
// Attempted lists every method tried, in order; Details holds the raw error
// detail of each attempt, aligned with Attempted.
type Failure struct {
	Attempted []Method
	Kind      ErrorKind
	Message   string
	Details   []string
}

// Outcome is the terminal result for one file: either a success with text
// and stats, or a Failure. Every Request yields exactly one Outcome;
// extraction never lets an error escape past the batch boundary.
type Outcome struct {
	Method     Method
	Text       string
	Stats      Stats
	FormFields []string
	Failure    *Failure
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Failure == nil }

func successOutcome(m Method, text string, stats Stats, fields []string) Outcome {
	return Outcome{Method: m, Text: text, Stats: stats, FormFields: fields}
}

func failureOutcome(attempted []Method, kind ErrorKind, message string, details []string) Outcome {
	return Outcome{Failure: &Failure{
		Attempted: attempted,
		Kind:      kind,
		Message:   message,
		Details:   details,
	}}
}
