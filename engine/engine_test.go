package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"datachat/apiclient"
	"datachat/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, handler http.Handler) *Engine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	cfg := &config.Config{
		AnalysisBaseURL: srv.URL,
		RequestTimeout:  5 * time.Second,
		EventBufferSize: 16,
	}
	return New(cfg, apiclient.New(cfg, logger), logger)
}

// activateDirect puts the engine into an active state without a network
// round trip.
func activateDirect(e *Engine, sessionID string, info apiclient.DatasetInfo) {
	e.mu.Lock()
	e.activate(sessionID, info)
	e.mu.Unlock()
}

func uploadSuccessHandler(sessionID string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload-csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"session_id": "` + sessionID + `",
			"basic_info": {"shape": [10, 3], "numeric_columns": ["age"], "categorical_columns": ["city"]},
			"message": "ok",
			"initial_analysis": "summary"
		}`))
	})
	return mux
}

func TestResetIdempotent(t *testing.T) {
	eng := newTestEngine(t, uploadSuccessHandler("s1"))
	require.Equal(t, Accepted, eng.SubmitFile(context.Background(), "data.csv", csvBody()))
	require.True(t, eng.IsActive())

	check := func() {
		require.False(t, eng.IsActive())
		require.Empty(t, eng.SessionID())
		require.Nil(t, eng.Dataset())
		require.Empty(t, eng.Transcript())
		require.Empty(t, eng.LastError())
		uploading, sending := eng.Pending()
		require.False(t, uploading)
		require.False(t, sending)
	}

	eng.Reset()
	check()
	eng.Reset()
	check()
}

func TestSubscribeSeesMutations(t *testing.T) {
	eng := newTestEngine(t, uploadSuccessHandler("s1"))

	events, cancel := eng.Subscribe()
	defer cancel()

	require.Equal(t, Accepted, eng.SubmitFile(context.Background(), "data.csv", csvBody()))

	seen := map[EventKind]bool{}
	for {
		select {
		case event := <-events:
			seen[event.Kind] = true
			if seen[EventSession] && seen[EventTranscript] && seen[EventPending] {
				return
			}
		case <-time.After(time.Second):
			t.Fatalf("missing events, saw %v", seen)
		}
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	eng := newTestEngine(t, uploadSuccessHandler("s1"))

	events, cancel := eng.Subscribe()
	cancel()

	// Closed on cancel; mutation after cancel must not panic.
	eng.Reset()
	_, open := <-events
	require.False(t, open)
}

func TestDatasetReturnsCopy(t *testing.T) {
	eng := newTestEngine(t, http.NotFoundHandler())
	activateDirect(eng, "s1", apiclient.DatasetInfo{
		Shape:          [2]int{4, 2},
		NumericColumns: []string{"age"},
	})

	first := eng.Dataset()
	first.Shape = [2]int{99, 99}
	require.Equal(t, [2]int{4, 2}, eng.Dataset().Shape)
}
