package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"datachat/config"
	apperrors "datachat/errors"
	"datachat/transcript"

	"go.uber.org/zap"
)

// DatasetInfo is the dataset summary the analysis service returns with a
// new session. Shape is [rows, columns]. Immutable once a session is
// active; replaced wholesale when a new dataset is loaded.
type DatasetInfo struct {
	Shape              [2]int   `json:"shape"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// UploadResponse is the success payload of the upload and load-sample
// endpoints.
type UploadResponse struct {
	SessionID       string      `json:"session_id"`
	BasicInfo       DatasetInfo `json:"basic_info"`
	Message         string      `json:"message"`
	InitialAnalysis string      `json:"initial_analysis"`
	Insights        []string    `json:"insights"`
}

// ChatResponse is the success payload of the chat endpoint. Insights and
// charts are optional on the wire.
type ChatResponse struct {
	Response string             `json:"response"`
	Insights []string           `json:"insights"`
	Charts   []transcript.Chart `json:"charts"`
}

// SampleFile describes one server-hosted demo dataset.
type SampleFile struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

type sampleFilesResponse struct {
	Files []SampleFile `json:"files"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// APIError is an error status returned by the analysis service. Detail is
// the service's human-readable message when the error body carried one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analysis service returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("analysis service returned status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return apperrors.ErrServiceRejected
}

// Client talks to the analysis service. Each call is a single attempt;
// failure is reported to the caller, never retried.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// UploadCSV uploads a CSV file and returns the created session payload.
func (c *Client) UploadCSV(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := c.cfg.AnalysisBaseURL + "/api/upload-csv"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Chat sends one question for an active session and returns the answer
// payload.
func (c *Client) Chat(ctx context.Context, sessionID string, message string) (*ChatResponse, error) {
	jsonBody, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := c.cfg.AnalysisBaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result ChatResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SampleFiles lists the demo datasets hosted by the analysis service.
func (c *Client) SampleFiles(ctx context.Context) ([]SampleFile, error) {
	endpoint := c.cfg.AnalysisBaseURL + "/api/sample-files"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create sample-files request: %w", err)
	}

	var result sampleFilesResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if result.Files == nil {
		result.Files = []SampleFile{}
	}
	return result.Files, nil
}

// LoadSample asks the service to load one of its demo datasets. The
// success payload matches UploadCSV.
func (c *Client) LoadSample(ctx context.Context, filename string) (*UploadResponse, error) {
	endpoint := c.cfg.AnalysisBaseURL + "/api/load-sample/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create load-sample request: %w", err)
	}

	var result UploadResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do executes a single request and decodes the response into out. Error
// statuses become *APIError with the service detail when present; requests
// that never complete wrap ErrTransportFailure.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response body: %w", apperrors.ErrTransportFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		// Best effort; a non-JSON error body just means no detail.
		_ = json.Unmarshal(bodyBytes, &eb)
		c.logger.Warn("Analysis service rejected request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", eb.Detail))
		return &APIError{StatusCode: resp.StatusCode, Detail: eb.Detail}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return apperrors.WrapError(apperrors.ErrMalformedResponse, err.Error())
	}
	return nil
}
