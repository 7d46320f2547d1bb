package selecter

import (
	"testing"

	"github.com/hyperifyio/freeresearch/internal/search"
)

func TestSelect_PerDomainCapKeepsOrder(t *testing.T) {
	in := []search.Result{
		{URL: "https://a.example/1", Snippet: "s", Rank: 1},
		{URL: "https://www.a.example/2", Snippet: "s", Rank: 2},
		{URL: "https://b.example/1", Snippet: "s", Rank: 3},
		{URL: "https://a.example/3", Snippet: "s", Rank: 4},
	}
	got := Select(in, Options{MaxTotal: 10, PerDomain: 1})
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 3 {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelect_MaxTotal(t *testing.T) {
	in := []search.Result{
		{URL: "https://a.example/1", Rank: 1},
		{URL: "https://b.example/1", Rank: 2},
		{URL: "https://c.example/1", Rank: 3},
	}
	got := Select(in, Options{MaxTotal: 2})
	if len(got) != 2 || got[1].Rank != 2 {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelect_MinSnippetChars(t *testing.T) {
	in := []search.Result{
		{URL: "https://a.example/1", Snippet: "  ab  ", Rank: 1},
		{URL: "https://b.example/1", Snippet: "long enough snippet", Rank: 2},
	}
	got := Select(in, Options{MaxTotal: 5, MinSnippetChars: 5})
	if len(got) != 1 || got[0].Rank != 2 {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelect_DefaultsToFive(t *testing.T) {
	in := make([]search.Result, 0, 8)
	for i := 0; i < 8; i++ {
		in = append(in, search.Result{URL: "https://x.example/" + string(rune('a'+i)), Rank: i + 1})
	}
	if got := Select(in, Options{}); len(got) != 5 {
		t.Fatalf("expected default cap of 5, got %d", len(got))
	}
}
