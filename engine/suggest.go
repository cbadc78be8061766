package engine

import (
	"fmt"

	"datachat/apiclient"
)

// maxSuggestions caps the suggestion list shown to the user.
const maxSuggestions = 6

var genericSuggestions = [...]string{
	"Give me an overview of the dataset",
	"What are the basic statistics of the data?",
	"Are there outliers in the data?",
	"Show the correlation between the variables",
	"What is the distribution of the numeric variables?",
	"Identify interesting patterns in the data",
}

// SuggestionsFor returns candidate questions for a dataset: the fixed
// generic list first, then one question for the first numeric column and
// one for the first categorical column, truncated to maxSuggestions.
// Generic questions take priority; with six of them the column-specific
// entries only surface if that list is ever shortened.
func SuggestionsFor(info *apiclient.DatasetInfo) []string {
	out := make([]string, 0, len(genericSuggestions)+2)
	out = append(out, genericSuggestions[:]...)

	if info != nil {
		if len(info.NumericColumns) > 0 {
			out = append(out, fmt.Sprintf("Analyze the distribution of %s", info.NumericColumns[0]))
		}
		if len(info.CategoricalColumns) > 0 {
			out = append(out, fmt.Sprintf("Analyze the categorical variable %s", info.CategoricalColumns[0]))
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
