package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"datachat/apiclient"
	"datachat/transcript"

	"go.uber.org/zap"
)

const genericUploadError = "could not load file"

// SubmitFile drives one upload of a CSV file. Rejected when the file is
// not CSV-typed or an upload is already in flight. Success activates a new
// session and replaces the transcript with a single seeded assistant
// entry; failure surfaces the error signal and leaves session state
// untouched. The uploading flag is cleared on every exit path.
func (e *Engine) SubmitFile(ctx context.Context, filename string, file io.Reader) Outcome {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		e.logger.Debug("Rejected non-CSV upload", zap.String("filename", filename))
		return Rejected
	}

	return e.runActivation(ctx, filename, func() (*apiclient.UploadResponse, error) {
		return e.client.UploadCSV(ctx, filename, file)
	})
}

// LoadSample drives the load-sample endpoint through the same activation
// path as SubmitFile: same concurrency guard, same seeded transcript, same
// failure mapping.
func (e *Engine) LoadSample(ctx context.Context, filename string) Outcome {
	return e.runActivation(ctx, filename, func() (*apiclient.UploadResponse, error) {
		return e.client.LoadSample(ctx, filename)
	})
}

func (e *Engine) runActivation(ctx context.Context, filename string, call func() (*apiclient.UploadResponse, error)) Outcome {
	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		e.logger.Debug("Rejected upload while another is in flight", zap.String("filename", filename))
		return Rejected
	}
	e.uploading = true
	e.lastErr = ""
	e.mu.Unlock()
	e.notify(EventPending)
	e.notify(EventError)

	defer func() {
		e.mu.Lock()
		e.uploading = false
		e.mu.Unlock()
		e.notify(EventPending)
	}()

	resp, err := call()
	if err != nil {
		e.failActivation(filename, uploadErrorDetail(err))
		return Accepted
	}
	if resp.SessionID == "" {
		// A success body without a session handle cannot activate anything.
		e.failActivation(filename, "analysis service returned no session id")
		return Accepted
	}

	seeded := transcript.NewAssistantEntry(
		fmt.Sprintf("Dataset loaded successfully!\n\n%s\n\n%s", resp.Message, resp.InitialAnalysis),
		resp.Insights,
		nil,
	)

	e.mu.Lock()
	e.activate(resp.SessionID, resp.BasicInfo)
	e.log.Reset()
	e.log.Append(seeded)
	e.mu.Unlock()

	e.logger.Info("Session activated",
		zap.String("session_id", resp.SessionID),
		zap.String("filename", filename),
		zap.Int("rows", resp.BasicInfo.Shape[0]),
		zap.Int("columns", resp.BasicInfo.Shape[1]))
	e.notify(EventSession)
	e.notify(EventTranscript)
	return Accepted
}

func (e *Engine) failActivation(filename, detail string) {
	e.mu.Lock()
	e.lastErr = detail
	e.mu.Unlock()

	e.logger.Warn("Upload failed",
		zap.String("filename", filename),
		zap.String("detail", detail))
	e.notify(EventError)
}

// uploadErrorDetail picks the message surfaced for a failed upload:
// service detail, then the transport error's own message, then a generic
// default.
func uploadErrorDetail(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return genericUploadError
}
