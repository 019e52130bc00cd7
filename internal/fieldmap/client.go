// Package fieldmap maps extracted document text to typed field values
// through a single deterministic model call per document.
package fieldmap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/internal/fields"
	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/pkg/formatting"
)

// Completer performs one chat completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client extracts schema fields from document text.
type Client interface {
	// ExtractFields runs the extraction contract for one document. The
	// returned map contains a Value for every schema field; fields the model
	// reported absent or that failed coercion carry the missing marker.
	// Warnings describe per-field downgrades.
	ExtractFields(ctx context.Context, text extraction.ExtractedText, schema *schemas.Schema) (map[string]fields.Value, []string, error)
}

type client struct {
	completer Completer
	retry     RetryPolicy
	logger    *slog.Logger
}

// NewClient creates a field extraction Client with the given completer and
// retry policy.
func NewClient(completer Completer, retry RetryPolicy, logger *slog.Logger) Client {
	return &client{
		completer: completer,
		retry:     retry,
		logger:    logger.With("system", "fieldmap"),
	}
}

func (c *client) ExtractFields(ctx context.Context, text extraction.ExtractedText, schema *schemas.Schema) (map[string]fields.Value, []string, error) {
	prompt := BuildPrompt(schema, text.Text)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}

	response, err := formatting.Parse[map[string]any](content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	if err := validateResponse(schema, response); err != nil {
		return nil, nil, err
	}

	return c.coerceResponse(text, schema, response)
}

// complete issues the model call, retrying transport failures per the retry
// policy. Contract violations pass through unretried.
func (c *client) complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.retry.wait(ctx, attempt-1); err != nil {
				return "", fmt.Errorf("%w: %w", ErrModelCall, err)
			}
			c.logger.Info("retrying model call", "attempt", attempt)
		}

		content, err := c.completer.Complete(ctx, prompt)
		if err == nil {
			return content, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: after %d attempts: %w", ErrModelCall, c.retry.MaxAttempts, lastErr)
}

// coerceResponse converts validated model output into typed values. A field
// that fails coercion downgrades to missing instead of failing the document.
func (c *client) coerceResponse(
	text extraction.ExtractedText,
	schema *schemas.Schema,
	response map[string]any,
) (map[string]fields.Value, []string, error) {
	values := make(map[string]fields.Value, len(schema.Fields))
	var warnings []string

	for _, field := range schema.Fields {
		raw, present := response[field.Name]
		if !present || raw == nil {
			values[field.Name] = fields.Absent(field, text.DocumentID)
			continue
		}

		str, ok := raw.(string)
		if !ok {
			// Response schema restricts values to string or null.
			return nil, nil, fmt.Errorf("%w: field %q is not a string", ErrSchemaViolation, field.Name)
		}

		value, err := fields.Coerce(field, str, schema.Render)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("field %q: %v", field.Name, err))
			values[field.Name] = fields.Absent(field, text.DocumentID)
			continue
		}

		value.SourceID = text.DocumentID
		value.Confidence = text.Confidence
		values[field.Name] = value
	}

	return values, warnings, nil
}

type agentCompleter struct {
	agentConfig gaconfig.AgentConfig
}

// NewAgentCompleter creates a Completer backed by the configured chat model.
func NewAgentCompleter(agentConfig gaconfig.AgentConfig) Completer {
	return &agentCompleter{agentConfig: agentConfig}
}

func (a *agentCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ag, err := agent.New(&a.agentConfig)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}

	return resp.Content(), nil
}
