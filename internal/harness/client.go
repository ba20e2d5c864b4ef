// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 4096

// StatusError is returned when the ingestion service answers with a non-2xx
// status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d - %s", e.Op, e.StatusCode, e.Body)
}

// Bank is a bank or TPP registered with the ingestion service.
type Bank struct {
	ID   int64  `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// FileConfig binds a bank or TPP to a directory, a filename pattern and a
// schedule.
type FileConfig struct {
	ID              int64  `json:"id,omitempty"`
	BankOrTPPID     int64  `json:"bankOrTPPId"`
	DirectoryPath   string `json:"directoryPath"`
	FileNamePattern string `json:"fileNamePattern"`
	ScheduleTime    string `json:"scheduleTime"`
	FileType        string `json:"fileType"`
}

// TriggerResult is the ingestion service's answer to a manual trigger.
type TriggerResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ProcessedCount int    `json:"processedCount"`
}

// ImportStatus is the outcome of one file import.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "SUCCESS"
	ImportFailed  ImportStatus = "FAILED"
	ImportPending ImportStatus = "PENDING"
)

// ImportLog is one import log entry.
type ImportLog struct {
	ID                   int64        `json:"id"`
	FileName             string       `json:"fileName"`
	Status               ImportStatus `json:"status"`
	ImportTime           string       `json:"importTime"`
	ErrorMessage         string       `json:"errorMessage,omitempty"`
	FileProcessingConfig *struct {
		ID int64 `json:"id"`
	} `json:"fileProcessingConfig,omitempty"`
}

// ConfigID returns the id of the file processing config that produced the
// entry, or 0 when the service did not include it.
func (l ImportLog) ConfigID() int64 {
	if l.FileProcessingConfig == nil {
		return 0
	}
	return l.FileProcessingConfig.ID
}

// Client talks to the ingestion service's JSON API. After Login, every
// request carries the bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a Client for baseURL. A nil httpClient gets a client
// with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Token returns the bearer token obtained by Login.
func (c *Client) Token() string {
	return c.token
}

// Login authenticates and keeps the returned bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login failed: response carried no token")
	}
	c.token = resp.Token
	return resp.Token, nil
}

// ListBanks returns every registered bank and TPP.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.do(ctx, "list banks", http.MethodGet, "/api/admin/banks", nil, nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// CreateBank registers a bank or TPP.
func (c *Client) CreateBank(ctx context.Context, bank Bank) (Bank, error) {
	var created Bank
	if err := c.do(ctx, "create bank", http.MethodPost, "/api/admin/banks", nil, bank, &created); err != nil {
		return Bank{}, err
	}
	return created, nil
}

// CreateFileConfig creates a file processing configuration.
func (c *Client) CreateFileConfig(ctx context.Context, cfg FileConfig) (FileConfig, error) {
	var created FileConfig
	if err := c.do(ctx, "create file config", http.MethodPost, "/api/admin/file-configs", nil, cfg, &created); err != nil {
		return FileConfig{}, err
	}
	return created, nil
}

// TriggerProcessing asks the service to process the files in directory now.
func (c *Client) TriggerProcessing(ctx context.Context, directory string) (TriggerResult, error) {
	var result TriggerResult
	q := url.Values{"directory": {directory}}
	if err := c.do(ctx, "trigger processing", http.MethodGet, "/api/bi/process-reports", q, nil, &result); err != nil {
		return TriggerResult{}, err
	}
	return result, nil
}

// ImportLogs returns all import log entries.
func (c *Client) ImportLogs(ctx context.Context) ([]ImportLog, error) {
	var logs []ImportLog
	if err := c.do(ctx, "list import logs", http.MethodGet, "/api/admin/import-logs", nil, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
