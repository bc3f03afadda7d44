package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- Assistant Model Prompt ---
const AssistantSystemPrompt = "You are a helpful AI assistant specialized in document analysis and professional deliverable creation. Help users create reports, presentations, summaries, and other professional documents."

// --- Analyst Model Prompt ---
const AnalystSystemPrompt = "You are an expert document analyst and consultant specializing in creating professional deliverables. Analyze provided content and help users create reports, presentations, summaries, and other professional documents. Always cite specific information from the extracted content when possible."

// VertexClient holds all pre-configured generative models for our app.
type VertexClient struct {
	AssistantModel *genai.GenerativeModel
	AnalystModel   *genai.GenerativeModel
	VisionModel    *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	// --- Configure the plain assistant model ---
	assistantModel := baseClient.GenerativeModel("gemini-1.5-pro")
	assistantModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(AssistantSystemPrompt)},
	}
	assistantModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: genai.Ptr[int32](1024),
	}

	// --- Configure the grounded analyst model ---
	analystModel := baseClient.GenerativeModel("gemini-1.5-pro")
	analystModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(AnalystSystemPrompt)},
	}
	analystModel.GenerationConfig = genai.GenerationConfig{
		// Lower temp when answers must stay anchored to extracted content.
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: genai.Ptr[int32](2048),
	}

	// --- Configure the vision model ---
	visionModel := baseClient.GenerativeModel("gemini-1.5-pro")
	visionModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: genai.Ptr[int32](1024),
	}

	return &VertexClient{
		AssistantModel: assistantModel,
		AnalystModel:   analystModel,
		VisionModel:    visionModel,
		baseClient:     baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Complete sends a prompt to the assistant or, when grounded, the analyst
// model and returns the response text.
func (c *VertexClient) Complete(ctx context.Context, prompt string, grounded bool) (string, error) {
	model := c.AssistantModel
	if grounded {
		model = c.AnalystModel
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	if refused(text) {
		return "", fmt.Errorf("gemini refused the request")
	}
	return text, nil
}

// Describe runs the vision model over an image stored in GCS.
func (c *VertexClient) Describe(ctx context.Context, fileURI, mimeType, instruction string) (string, error) {
	filePart := genai.FileData{
		MIMEType: mimeType,
		FileURI:  fileURI,
	}

	resp, err := c.VisionModel.GenerateContent(ctx, filePart, genai.Text(instruction))
	if err != nil {
		return "", fmt.Errorf("failed to generate image description from gemini: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty description")
	}
	return text, nil
}

// extractText parses the model's response and robustly extracts text content.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}

// refused is a sanity check for LLM refusal. If the model refuses to answer,
// we must fail fast instead of storing the refusal as an answer.
func refused(text string) bool {
	refusalPhrases := []string{
		"i am unable to",
		"i cannot fulfill",
		"i cannot answer",
		"i cannot provide",
		"as a large language model",
	}
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
