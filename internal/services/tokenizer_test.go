package services

import (
	"reflect"
	"testing"
)

func TestTokenizerClean(t *testing.T) {
	tok := NewTokenizer()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			in:   "Gaming-Laptop, 16GB RAM!",
			want: []string{"gaminglaptop", "16gb", "ram"},
		},
		{
			name: "drops stopwords",
			in:   "a laptop for the office",
			want: []string{"laptop", "office"},
		},
		{
			name: "empty input yields empty slice",
			in:   "",
			want: []string{},
		},
		{
			name: "all stopwords yields empty slice",
			in:   "the a an of",
			want: []string{},
		},
		{
			name: "collapses whitespace",
			in:   "  wireless   mouse  ",
			want: []string{"wireless", "mouse"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tok.Clean(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Clean(%q): want=%v got=%v", tc.in, tc.want, got)
			}
		})
	}
}
