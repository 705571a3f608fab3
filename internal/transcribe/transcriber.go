// Package transcribe provides speech-to-text for clinical consultation audio.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DomainHint steers the speech-to-text model toward clinical vocabulary.
// It is passed with every transcription request and persisted as the
// transcript's context.
const DomainHint = "Medical consultation recording. It may contain technical medical terminology, " +
	"patient symptoms, diagnosis, treatment plan, medications, or clinical observations."

// Result is a completed transcription.
type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcriber converts audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, domainHint string) (Result, error)
}

const openAITranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIClient implements Transcriber using the OpenAI audio API (whisper).
type OpenAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ Transcriber = (*OpenAIClient)(nil)

// NewOpenAIClient creates a Whisper transcription client.
// If model is empty, "whisper-1" is used.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		// Transcription of long consultations is slow; allow a few minutes.
		httpClient: &http.Client{Timeout: 4 * time.Minute},
	}
}

// Transcribe sends the audio to the transcription API with the domain hint as
// prompt, temperature 0 and verbose_json output so language and duration come
// back alongside the text.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, domainHint string) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return Result{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return Result{}, fmt.Errorf("write audio: %w", err)
	}

	fields := map[string]string{
		"model":           c.model,
		"response_format": "verbose_json",
		"temperature":     "0",
		"prompt":          domainHint,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return Result{}, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAITranscriptionsURL, &body)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("transcription request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed Result
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("parse transcription response: %w", err)
	}
	return parsed, nil
}
