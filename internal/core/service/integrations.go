package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// Integrations groups the external-service operations under the Core
// namespace the legacy SDK used.
type Integrations struct {
	Core *CoreIntegrations
}

func NewIntegrations(storage ports.ObjectStorage, logger zerolog.Logger) *Integrations {
	return &Integrations{Core: &CoreIntegrations{storage: storage, logger: logger}}
}

// CoreIntegrations carries placeholder implementations for the external
// services the dashboard may call. Each validates required inputs and
// synthesizes a plausible result shape with a note marking it unimplemented.
// File upload is the one operation with a real side effect: it stores the
// file in object storage and returns its public URL.
type CoreIntegrations struct {
	storage ports.ObjectStorage
	logger  zerolog.Logger
}

// --- Invoke LLM ---

type LLMInput struct {
	Prompt                 string         `json:"prompt"`
	AddContextFromInternet bool           `json:"add_context_from_internet"`
	ResponseJSONSchema     map[string]any `json:"response_json_schema,omitempty"`
	FileURLs               []string       `json:"file_urls,omitempty"`
}

type LLMResult struct {
	Response string         `json:"response,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// InvokeLLM returns a placeholder completion. When a response schema is
// given the result carries structured data, otherwise plain text.
func (c *CoreIntegrations) InvokeLLM(_ context.Context, input LLMInput) (*LLMResult, error) {
	c.logger.Warn().
		Str("prompt", input.Prompt).
		Bool("add_context_from_internet", input.AddContextFromInternet).
		Msg("InvokeLLM not yet implemented")

	if input.ResponseJSONSchema != nil {
		return &LLMResult{Data: map[string]any{
			"message": "This would be structured data matching the provided schema",
			"note":    "LLM integration not yet implemented",
		}}, nil
	}
	return &LLMResult{
		Response: "This would be the LLM response text. LLM integration not yet implemented.",
	}, nil
}

// --- Send email ---

type EmailInput struct {
	To       string `json:"to" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	Body     string `json:"body" validate:"required"`
	FromName string `json:"from_name"`
}

type EmailResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Note      string `json:"note"`
}

// SendEmail reports a synthesized delivery without contacting any provider.
func (c *CoreIntegrations) SendEmail(_ context.Context, input EmailInput) (*EmailResult, error) {
	c.logger.Warn().
		Str("to", input.To).
		Str("subject", input.Subject).
		Msg("SendEmail not yet implemented")

	return &EmailResult{
		Status:    "sent",
		MessageID: "mock_" + uuid.NewString(),
		Note:      "Email integration not yet implemented - email would have been sent",
	}, nil
}

// --- Upload file ---

type UploadInput struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

type UploadResult struct {
	FileURL string `json:"file_url"`
}

// UploadFile stores the file under a collision-resistant key (upload
// timestamp plus the original name) and returns its public URL. A nil file
// is rejected before any backend call; storage failures propagate.
func (c *CoreIntegrations) UploadFile(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.Content == nil {
		return nil, domain.ErrMissingFile
	}

	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), input.FileName)
	if err := c.storage.Put(ctx, key, input.Content, input.ContentType); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("file upload failed")
		return nil, err
	}

	return &UploadResult{FileURL: c.storage.PublicURL(key)}, nil
}

// --- Generate image ---

type ImageResult struct {
	URL  string `json:"url"`
	Note string `json:"note"`
}

// GenerateImage returns a placeholder asset URL.
func (c *CoreIntegrations) GenerateImage(_ context.Context, prompt string) (*ImageResult, error) {
	c.logger.Warn().Str("prompt", prompt).Msg("GenerateImage not yet implemented")
	return &ImageResult{
		URL:  fmt.Sprintf("https://mock-ai-images.com/generated/%s.png", uuid.NewString()),
		Note: "Image generation integration not yet implemented - this is a mock URL",
	}, nil
}

// --- Extract data from uploaded file ---

type ExtractInput struct {
	FileURL    string         `json:"file_url" validate:"required"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type ExtractResult struct {
	Status  string `json:"status"`
	Details any    `json:"details"`
	Output  any    `json:"output"`
	Note    string `json:"note"`
}

// ExtractDataFromUploadedFile returns a placeholder extraction, shaped as an
// array or object depending on the requested schema type.
func (c *CoreIntegrations) ExtractDataFromUploadedFile(_ context.Context, input ExtractInput) (*ExtractResult, error) {
	c.logger.Warn().Str("file_url", input.FileURL).Msg("ExtractDataFromUploadedFile not yet implemented")

	var output any = map[string]any{}
	if t, ok := input.JSONSchema["type"].(string); ok && t == "array" {
		output = []any{}
	}
	return &ExtractResult{
		Status: "success",
		Output: output,
		Note:   "File data extraction integration not yet implemented - this is a mock response",
	}, nil
}
