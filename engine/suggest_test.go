package engine

import (
	"reflect"
	"testing"

	"datachat/apiclient"
)

func TestSuggestionsFor(t *testing.T) {
	tests := []struct {
		name string
		info *apiclient.DatasetInfo
		want []string
	}{
		{
			name: "no_dataset",
			info: nil,
			want: genericSuggestions[:],
		},
		{
			name: "empty_columns",
			info: &apiclient.DatasetInfo{},
			want: genericSuggestions[:],
		},
		{
			// The generic list already fills the cap, so the
			// column-specific suggestions are truncated away.
			name: "columns_do_not_fit_under_cap",
			info: &apiclient.DatasetInfo{
				NumericColumns:     []string{"age", "income"},
				CategoricalColumns: []string{"city"},
			},
			want: genericSuggestions[:],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestionsFor(tt.info)
			if len(got) > maxSuggestions {
				t.Fatalf("len = %d, want at most %d", len(got), maxSuggestions)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestionsFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestionsForIsDeterministic(t *testing.T) {
	info := &apiclient.DatasetInfo{
		NumericColumns:     []string{"age"},
		CategoricalColumns: []string{"city"},
	}
	first := SuggestionsFor(info)
	second := SuggestionsFor(info)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("suggestions not deterministic: %v vs %v", first, second)
	}
}
