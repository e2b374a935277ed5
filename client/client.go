package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

// StatusError is returned for every non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for an API rooted at baseURL, e.g. http://127.0.0.1:8005/api/.
// A nil httpClient gets a 30s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) Data(ctx context.Context, id string) ([]models.Record, error) {
	var records []models.Record
	if err := c.getJSON(ctx, "data/"+id+"/", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Summary(ctx context.Context, id string) (*models.UploadedDataset, error) {
	var d models.UploadedDataset
	if err := c.getJSON(ctx, "summary/"+id+"/", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) History(ctx context.Context) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	if err := c.getJSON(ctx, "history/", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Upload posts a file as multipart form field "file". An empty datasetName
// lets the server use the file name.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader, datasetName string) (*models.UploadedDataset, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if datasetName != "" {
		if err := form.WriteField("dataset_name", datasetName); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "upload/", body, form.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var d models.UploadedDataset
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &d, nil
}

// Report streams the PDF report of a dataset into w.
func (c *Client) Report(ctx context.Context, id string, w io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, "report/"+id+"/", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}
