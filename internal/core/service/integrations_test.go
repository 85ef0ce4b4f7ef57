package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
)

type stubObjectStorage struct {
	keys    []string
	types   []string
	bodies  [][]byte
	putErr  error
	baseURL string
}

func (s *stubObjectStorage) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, _ := io.ReadAll(body)
	s.keys = append(s.keys, key)
	s.types = append(s.types, contentType)
	s.bodies = append(s.bodies, data)
	return nil
}

func (s *stubObjectStorage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func TestUploadFile(t *testing.T) {
	storage := &stubObjectStorage{baseURL: "https://files.example.com/file-uploads"}
	core := NewIntegrations(storage, zerolog.Nop()).Core

	result, err := core.UploadFile(context.Background(), UploadInput{
		FileName:    "resume.pdf",
		ContentType: "application/pdf",
		Content:     bytes.NewReader([]byte("pdf bytes")),
	})
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if len(storage.keys) != 1 || !strings.HasSuffix(storage.keys[0], "_resume.pdf") {
		t.Fatalf("key must be timestamp-prefixed original name, got %v", storage.keys)
	}
	if storage.types[0] != "application/pdf" {
		t.Fatalf("content type must be forwarded, got %q", storage.types[0])
	}
	if string(storage.bodies[0]) != "pdf bytes" {
		t.Fatalf("file body must be stored intact, got %q", storage.bodies[0])
	}
	if result.FileURL != storage.PublicURL(storage.keys[0]) {
		t.Fatalf("result must carry the public URL, got %q", result.FileURL)
	}
}

func TestUploadFile_RequiresFile(t *testing.T) {
	core := NewIntegrations(&stubObjectStorage{}, zerolog.Nop()).Core

	_, err := core.UploadFile(context.Background(), UploadInput{FileName: "x"})
	if !errors.Is(err, domain.ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
}

func TestUploadFile_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("bucket gone")
	core := NewIntegrations(&stubObjectStorage{putErr: boom}, zerolog.Nop()).Core

	_, err := core.UploadFile(context.Background(), UploadInput{
		FileName: "x.txt",
		Content:  strings.NewReader("x"),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

func TestInvokeLLM_ShapeFollowsSchema(t *testing.T) {
	core := NewIntegrations(&stubObjectStorage{}, zerolog.Nop()).Core

	plain, err := core.InvokeLLM(context.Background(), LLMInput{Prompt: "hello"})
	if err != nil {
		t.Fatalf("InvokeLLM failed: %v", err)
	}
	if plain.Response == "" || plain.Data != nil {
		t.Fatalf("schemaless call must return text, got %#v", plain)
	}

	structured, err := core.InvokeLLM(context.Background(), LLMInput{
		Prompt:             "hello",
		ResponseJSONSchema: map[string]any{"type": "object"},
	})
	if err != nil {
		t.Fatalf("InvokeLLM failed: %v", err)
	}
	if structured.Data == nil || structured.Response != "" {
		t.Fatalf("schema call must return structured data, got %#v", structured)
	}
}

func TestSendEmail_PlaceholderResult(t *testing.T) {
	core := NewIntegrations(&stubObjectStorage{}, zerolog.Nop()).Core

	result, err := core.SendEmail(context.Background(), EmailInput{
		To:      "hr@example.com",
		Subject: "Welcome",
		Body:    "hi",
	})
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}
	if result.Status != "sent" || !strings.HasPrefix(result.MessageID, "mock_") {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestExtractData_OutputShape(t *testing.T) {
	core := NewIntegrations(&stubObjectStorage{}, zerolog.Nop()).Core

	asObject, err := core.ExtractDataFromUploadedFile(context.Background(), ExtractInput{FileURL: "https://x/y"})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if _, ok := asObject.Output.(map[string]any); !ok {
		t.Fatalf("default output must be an object, got %#v", asObject.Output)
	}

	asArray, err := core.ExtractDataFromUploadedFile(context.Background(), ExtractInput{
		FileURL:    "https://x/y",
		JSONSchema: map[string]any{"type": "array"},
	})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if _, ok := asArray.Output.([]any); !ok {
		t.Fatalf("array schema must yield array output, got %#v", asArray.Output)
	}
}

func TestVerifyHcaptcha(t *testing.T) {
	functions := &Functions{logger: zerolog.Nop()}
	if !functions.VerifyHcaptcha(context.Background(), "any-token").Success {
		t.Fatal("captcha verification stub must report success")
	}
}
