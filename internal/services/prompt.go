package services

import (
	"fmt"
	"strings"
)

// Candidate is one product surfaced by hybrid search, in retrieval order.
// That order is part of the contract: resolution takes the first matching
// name, so it breaks ties between candidates sharing a name.
type Candidate struct {
	ID   uint
	Name string
}

// The ranking model was fine-tuned on prompts in exactly this shape,
// including the dict-style candidate rendering. Do not reformat without
// retraining.
const recommendationInstruction = `Given the following customer profile and search history, suggest the most relevant product from the provided list of candidates. Return only the name of the product that best matches the customer's needs based on their profile and search activity.
Customer Profile: %s
Search History: %s
Products for Recommendation: %s
Your Task: Select the most suitable product from the list of "Products for Recommendation" based on the customer profile and search history.
`

func BuildRecommendationPrompt(profileDescription, searchHistory string, candidates []Candidate) string {
	return fmt.Sprintf(recommendationInstruction, profileDescription, searchHistory, renderCandidateMap(candidates))
}

// BuildTrainingPrompt is the export-time variant: candidates appear as a
// plain name list, with the chosen answer appended when retrieval no longer
// surfaces it.
func BuildTrainingPrompt(profileDescription, searchHistory string, candidateNames []string) string {
	return fmt.Sprintf(recommendationInstruction, profileDescription, searchHistory, renderNameList(candidateNames))
}

func BuildCustomerInfoPrompt(profileDescription, searchHistory string) string {
	return fmt.Sprintf(`Customer Profile:
%s

Search History:
%s`, profileDescription, searchHistory)
}

func renderCandidateMap(candidates []Candidate) string {
	var b strings.Builder
	b.WriteString("{")
	for i, c := range candidates {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: '%s'", c.ID, c.Name)
	}
	b.WriteString("}")
	return b.String()
}

func renderNameList(names []string) string {
	var b strings.Builder
	b.WriteString("[")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s'", name)
	}
	b.WriteString("]")
	return b.String()
}
