package engine

import (
	"encoding/json"
	"testing"

	"datachat/apiclient"
	"datachat/transcript"
)

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name         string
		resp         *apiclient.ChatResponse
		wantContent  string
		wantInsights []string
		wantCharts   []string // titles of surviving charts
	}{
		{
			name:         "nil_payload",
			resp:         nil,
			wantContent:  "",
			wantInsights: []string{},
			wantCharts:   []string{},
		},
		{
			name:         "empty_payload",
			resp:         &apiclient.ChatResponse{},
			wantContent:  "",
			wantInsights: []string{},
			wantCharts:   []string{},
		},
		{
			name: "text_only",
			resp: &apiclient.ChatResponse{
				Response: "the mean age is 42",
			},
			wantContent:  "the mean age is 42",
			wantInsights: []string{},
			wantCharts:   []string{},
		},
		{
			name: "chart_without_data_dropped",
			resp: &apiclient.ChatResponse{
				Response: "x",
				Charts:   []transcript.Chart{{Title: "t"}},
			},
			wantContent:  "x",
			wantInsights: []string{},
			wantCharts:   []string{},
		},
		{
			name: "chart_with_null_data_dropped",
			resp: &apiclient.ChatResponse{
				Response: "x",
				Charts: []transcript.Chart{
					{Title: "t", Data: json.RawMessage("null")},
				},
			},
			wantContent:  "x",
			wantInsights: []string{},
			wantCharts:   []string{},
		},
		{
			name: "valid_charts_kept_in_order",
			resp: &apiclient.ChatResponse{
				Response: "x",
				Insights: []string{"a", "b"},
				Charts: []transcript.Chart{
					{Title: "first", Data: json.RawMessage(`{"x":[1]}`)},
					{Title: "dropped"},
					{Data: json.RawMessage(`{"y":[2]}`)},
				},
			},
			wantContent:  "x",
			wantInsights: []string{"a", "b"},
			wantCharts:   []string{"first", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeResponse(tt.resp)

			if got.IsUser {
				t.Error("NormalizeResponse() produced a user entry")
			}
			if got.Content != tt.wantContent {
				t.Errorf("content = %q, want %q", got.Content, tt.wantContent)
			}
			if got.Insights == nil {
				t.Fatal("insights is nil, want empty slice")
			}
			if len(got.Insights) != len(tt.wantInsights) {
				t.Fatalf("insights = %v, want %v", got.Insights, tt.wantInsights)
			}
			for i := range tt.wantInsights {
				if got.Insights[i] != tt.wantInsights[i] {
					t.Errorf("insight[%d] = %q, want %q", i, got.Insights[i], tt.wantInsights[i])
				}
			}
			if got.Charts == nil {
				t.Fatal("charts is nil, want empty slice")
			}
			if len(got.Charts) != len(tt.wantCharts) {
				t.Fatalf("charts = %v, want titles %v", got.Charts, tt.wantCharts)
			}
			for i := range tt.wantCharts {
				if got.Charts[i].Title != tt.wantCharts[i] {
					t.Errorf("chart[%d].Title = %q, want %q", i, got.Charts[i].Title, tt.wantCharts[i])
				}
			}
		})
	}
}

func TestNormalizeResponsePreservesOpaquePayloads(t *testing.T) {
	data := json.RawMessage(`{"x": [1, 2], "type": "histogram"}`)
	layout := json.RawMessage(`{"title": {"text": "Ages"}}`)

	got := NormalizeResponse(&apiclient.ChatResponse{
		Response: "x",
		Charts:   []transcript.Chart{{Title: "Ages", Data: data, Layout: layout}},
	})

	if len(got.Charts) != 1 {
		t.Fatalf("charts = %d, want 1", len(got.Charts))
	}
	if string(got.Charts[0].Data) != string(data) {
		t.Errorf("data payload changed: %s", got.Charts[0].Data)
	}
	if string(got.Charts[0].Layout) != string(layout) {
		t.Errorf("layout payload changed: %s", got.Charts[0].Layout)
	}
}
