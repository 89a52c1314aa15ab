// Package transcribe turns audio recordings into speaker-labelled
// transcripts using the AssemblyAI API.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const baseURL = "https://api.assemblyai.com/v2"

// Client calls the AssemblyAI transcription API.
type Client struct {
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		pollInterval: 3 * time.Second,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

type transcriptResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Utterances []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"utterances"`
	Text string `json:"text"`
}

// Transcribe uploads an audio file, requests a speaker-labelled transcript
// and polls until it completes. The result has one "Speaker X: text" line
// per utterance.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return "", err
	}

	id, err := c.create(ctx, audioURL)
	if err != nil {
		return "", err
	}

	for {
		tr, err := c.get(ctx, id)
		if err != nil {
			return "", err
		}
		switch tr.Status {
		case "completed":
			return formatUtterances(tr), nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", tr.Error)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/upload", f)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload audio: empty upload_url")
	}
	return out.UploadURL, nil
}

func (c *Client) create(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptRequest{
		AudioURL:      audioURL,
		SpeakerLabels: true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("create transcript: empty id")
	}
	return out.ID, nil
}

func (c *Client) get(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("poll transcript: %w", err)
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func formatUtterances(tr *transcriptResponse) string {
	if len(tr.Utterances) == 0 {
		return strings.TrimSpace(tr.Text)
	}
	var buf strings.Builder
	for _, u := range tr.Utterances {
		fmt.Fprintf(&buf, "Speaker %s: %s\n", u.Speaker, u.Text)
	}
	return buf.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
