package search

import (
	"os"
	"path/filepath"
	"testing"
)

func writeText(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSearchFindsFirstParagraph(t *testing.T) {
	path := writeText(t, "Intro text.\n\nThis covers Sprawl in depth.\n\nConclusion.")

	got, err := Search(path, []string{"Sprawl", "Levittown"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []Result{
		{Term: "Sprawl", Path: path, Paragraph: "This covers Sprawl in depth.", Found: true},
		{Term: "Levittown", Path: path},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if s := got[0].String(); s != "Found 'Sprawl' in "+path+":\nThis covers Sprawl in depth.\n\n" {
		t.Errorf("found block = %q", s)
	}
	if s := got[1].String(); s != "'Levittown' not found in "+path+" - marked as impossible.\n\n" {
		t.Errorf("not-found block = %q", s)
	}
}

func TestSearchText(t *testing.T) {
	text := "Rust Belt towns\nlost jobs.\n\nthe RUST BELT again\n\nGreat Migration"
	tests := []struct {
		name      string
		terms     []string
		wantFound []bool
		wantPara  []string
	}{
		{
			name:      "first occurrence only, case-insensitive",
			terms:     []string{"rust belt"},
			wantFound: []bool{true},
			wantPara:  []string{"Rust Belt towns\nlost jobs."},
		},
		{
			name:      "newline is not a space",
			terms:     []string{"towns lost"},
			wantFound: []bool{false},
			wantPara:  []string{""},
		},
		{
			name:      "order and duplicates kept",
			terms:     []string{"Great Migration", "HOLC", "great migration"},
			wantFound: []bool{true, false, true},
			wantPara:  []string{"Great Migration", "", "Great Migration"},
		},
		{
			name: "no terms",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchText("x.txt", text, tt.terms)
			if len(got) != len(tt.terms) {
				t.Fatalf("got %d results for %d terms", len(got), len(tt.terms))
			}
			for i, r := range got {
				if r.Term != tt.terms[i] || r.Found != tt.wantFound[i] || r.Paragraph != tt.wantPara[i] {
					t.Errorf("result %d = %+v", i, r)
				}
			}
		})
	}
}

func TestSearchEmptyFile(t *testing.T) {
	path := writeText(t, "")
	got, err := Search(path, []string{"HOLC", ""})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range got {
		if r.Found {
			t.Errorf("term %q found in empty file", r.Term)
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
}

func TestSearchDropsInvalidBytes(t *testing.T) {
	path := writeText(t, "Edge\xffCities grew.")
	got, err := Search(path, []string{"EdgeCities"})
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].Found || got[0].Paragraph != "EdgeCities grew." {
		t.Fatalf("result = %+v", got[0])
	}
}

func TestSearchMissingFile(t *testing.T) {
	if _, err := Search(filepath.Join(t.TempDir(), "missing.txt"), []string{"x"}); err == nil {
		t.Fatal("expected an I/O error")
	}
}
