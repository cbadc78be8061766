package web

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventsStreamDeliversChanges(t *testing.T) {
	srv := newTestServer(t, analysisStub())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Trigger a state mutation while the stream is open.
	go func() {
		time.Sleep(50 * time.Millisecond)
		restart, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/restart", nil)
		http.DefaultClient.Do(restart)
	}()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			require.Contains(t, line, "kind")
			return
		}
	}
}
