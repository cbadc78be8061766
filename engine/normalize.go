package engine

import (
	"datachat/apiclient"
	"datachat/transcript"
)

// NormalizeResponse shapes a raw chat payload into an assistant entry. It
// is total: a nil or empty payload yields an entry with empty content,
// insights and charts rather than an error. Chart descriptors without a
// trace payload are dropped; a missing title stays empty.
func NormalizeResponse(resp *apiclient.ChatResponse) transcript.Entry {
	if resp == nil {
		return transcript.NewAssistantEntry("", nil, nil)
	}

	charts := make([]transcript.Chart, 0, len(resp.Charts))
	for _, chart := range resp.Charts {
		if !chart.HasData() {
			continue
		}
		charts = append(charts, chart)
	}

	return transcript.NewAssistantEntry(resp.Response, resp.Insights, charts)
}
