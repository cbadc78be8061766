package engine

import (
	"context"
	"errors"
	"strings"

	"datachat/apiclient"
	"datachat/transcript"

	"go.uber.org/zap"
)

const genericChatError = "could not process message"

// SubmitQuestion drives one chat exchange. Rejected when the question is
// blank after trimming, no session is active, or a chat request is already
// in flight; a rejected call changes nothing and issues no request.
//
// The user entry is appended before the network call begins, so the
// question is visible in the transcript regardless of latency. On failure
// the conversation still records the exchange: the error detail becomes
// both the error signal and a synthetic assistant entry. The sending flag
// is cleared on every exit path.
func (e *Engine) SubmitQuestion(ctx context.Context, text string) Outcome {
	e.mu.Lock()
	if strings.TrimSpace(text) == "" || e.sessionID == "" || e.sending {
		e.mu.Unlock()
		return Rejected
	}
	sessionID := e.sessionID
	e.sending = true
	e.lastErr = ""
	e.log.Append(transcript.NewUserEntry(text))
	e.mu.Unlock()
	e.notify(EventTranscript)
	e.notify(EventPending)
	e.notify(EventError)

	defer func() {
		e.mu.Lock()
		e.sending = false
		e.mu.Unlock()
		e.notify(EventPending)
	}()

	resp, err := e.client.Chat(ctx, sessionID, text)
	if err != nil {
		detail := chatErrorDetail(err)
		e.mu.Lock()
		e.lastErr = detail
		e.log.Append(transcript.NewAssistantEntry("Error: "+detail, nil, nil))
		e.mu.Unlock()

		e.logger.Warn("Chat request failed",
			zap.String("session_id", sessionID),
			zap.String("detail", detail))
		e.notify(EventError)
		e.notify(EventTranscript)
		return Accepted
	}

	entry := NormalizeResponse(resp)
	e.mu.Lock()
	e.log.Append(entry)
	e.mu.Unlock()

	e.logger.Debug("Chat response appended",
		zap.String("session_id", sessionID),
		zap.Int("insights", len(entry.Insights)),
		zap.Int("charts", len(entry.Charts)))
	e.notify(EventTranscript)
	return Accepted
}

// chatErrorDetail picks the message surfaced for a failed chat exchange:
// the service detail when present, otherwise a generic default.
func chatErrorDetail(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return genericChatError
}
