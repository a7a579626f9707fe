package main

import (
	"encoding/json"
	"testing"
)

func TestLanguagesCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"languages"}, "")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	for _, want := range []string{"English", "Mandarin", "Spanish", "Hindi", "default"} {
		requireContains(t, out, want)
	}
}

func TestLanguagesCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"languages", "--json"}, "")
	if err != nil {
		t.Fatalf("languages --json: %v", err)
	}

	var views []struct {
		Name    string `json:"name"`
		Value   string `json:"value"`
		Default bool   `json:"default"`
	}
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 languages, got %d", len(views))
	}
	if views[0].Value != "english" || !views[0].Default {
		t.Errorf("first entry = %+v, want english default", views[0])
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "repocast")
}
