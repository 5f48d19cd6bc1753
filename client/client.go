// Package client talks to the quiz server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("quiz server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("quiz server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for baseURL. A nil httpClient gets a default with a
// 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Quizzes(ctx context.Context) ([]models.Quiz, error) {
	var out models.QuizListResponse
	if err := c.do(ctx, http.MethodGet, "/quiz", nil, &out); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}

// Questions fetches the questions of a quiz, without correct options.
func (c *Client) Questions(ctx context.Context, quizID int) ([]models.PublicQuestion, error) {
	var out models.QuestionsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quiz/%d/questions", quizID), nil, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		out.Questions = []models.PublicQuestion{}
	}
	return out.Questions, nil
}

// Submit sends an answer set and returns the verdict.
func (c *Client) Submit(ctx context.Context, quizID int, answers []models.SubmittedAnswer) (*models.ScoreResult, error) {
	if answers == nil {
		answers = []models.SubmittedAnswer{}
	}
	body, err := json.Marshal(models.SubmitRequest{Answers: &answers})
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	var out models.ScoreResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", quizID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	utils.LogHTTP("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody models.ErrorResponse
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
				apiErr.Message = errBody.Error
			} else {
				apiErr.Message = strings.TrimSpace(string(raw))
			}
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
