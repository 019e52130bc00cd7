package extraction

import (
	"context"
	"fmt"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/scrivener/pkg/formatting"
)

// Transcription is the recognized content of a single page image.
type Transcription struct {
	Text       string
	Confidence float64
	Warnings   []string
}

// Recognizer transcribes a page image to text. Implementations report a
// confidence in [0, 1].
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Transcription, error)
}

// transcribePrompt is fixed: transcription output must be machine-parseable
// JSON with the recognized text and a self-assessed confidence.
const transcribePrompt = `You are a document transcription engine. Transcribe ALL text visible in this image exactly as written, preserving line breaks and reading order.

Respond with ONLY a JSON object in this form:
{"text": "<full transcription>", "confidence": <number between 0 and 1>}

Do not summarize, interpret, or omit any text. If the image contains no text, return an empty string with confidence 1.`

const defaultConfidence = 0.5

type transcribeResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

type visionRecognizer struct {
	agentConfig gaconfig.AgentConfig
}

// NewVisionRecognizer creates a Recognizer that transcribes page images
// through the configured vision model.
func NewVisionRecognizer(agentConfig gaconfig.AgentConfig) Recognizer {
	return &visionRecognizer{agentConfig: agentConfig}
}

func (r *visionRecognizer) Recognize(ctx context.Context, image []byte) (Transcription, error) {
	a, err := agent.New(&r.agentConfig)
	if err != nil {
		return Transcription{}, fmt.Errorf("create agent: %w", err)
	}

	dataURI, err := encoding.EncodeImageDataURI(image, document.PNG)
	if err != nil {
		return Transcription{}, fmt.Errorf("encode image: %w", err)
	}

	resp, err := a.Vision(ctx, transcribePrompt, []string{dataURI})
	if err != nil {
		return Transcription{}, fmt.Errorf("vision call: %w", err)
	}

	parsed, err := formatting.Parse[transcribeResponse](resp.Content())
	if err != nil {
		return Transcription{}, fmt.Errorf("parse transcription: %w", err)
	}

	result := Transcription{Text: parsed.Text}
	if parsed.Confidence != nil {
		result.Confidence = *parsed.Confidence
	} else {
		result.Confidence = defaultConfidence
		result.Warnings = append(result.Warnings, "transcription omitted confidence, assuming 0.5")
	}

	return result, nil
}
