package services

import (
	"strings"
	"testing"
)

func TestBuildRecommendationPromptRendersCandidateMap(t *testing.T) {
	prompt := BuildRecommendationPrompt(
		"Frequent traveler",
		"laptop,headphones",
		[]Candidate{{ID: 1, Name: "Laptop"}, {ID: 4, Name: "Noise Cancelling Headphones"}},
	)

	if !strings.Contains(prompt, "Customer Profile: Frequent traveler") {
		t.Fatalf("profile missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Search History: laptop,headphones") {
		t.Fatalf("history missing from prompt:\n%s", prompt)
	}
	want := "Products for Recommendation: {1: 'Laptop', 4: 'Noise Cancelling Headphones'}"
	if !strings.Contains(prompt, want) {
		t.Fatalf("candidate map mismatch, want substring %q in:\n%s", want, prompt)
	}
	if !strings.HasSuffix(prompt, "\n") {
		t.Fatalf("prompt must end with trailing newline")
	}
}

func TestBuildRecommendationPromptEmptyCandidates(t *testing.T) {
	prompt := BuildRecommendationPrompt("p", "", nil)
	if !strings.Contains(prompt, "Products for Recommendation: {}") {
		t.Fatalf("empty candidate map mismatch:\n%s", prompt)
	}
}

func TestBuildTrainingPromptRendersNameList(t *testing.T) {
	prompt := BuildTrainingPrompt("p", "h", []string{"Laptop", "Mouse"})
	want := "Products for Recommendation: ['Laptop', 'Mouse']"
	if !strings.Contains(prompt, want) {
		t.Fatalf("name list mismatch, want substring %q in:\n%s", want, prompt)
	}
}

func TestBuildCustomerInfoPrompt(t *testing.T) {
	out := BuildCustomerInfoPrompt("Traveler", "laptop,bag")
	if !strings.Contains(out, "Customer Profile:\nTraveler") {
		t.Fatalf("profile block mismatch:\n%s", out)
	}
	if !strings.Contains(out, "Search History:\nlaptop,bag") {
		t.Fatalf("history block mismatch:\n%s", out)
	}
}
