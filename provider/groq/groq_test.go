package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestParseStepsJSON(t *testing.T) {
	content := `{"steps":[{"task":" Draft the script "},{"task":"Record the voiceover"},{"task":""}]}`
	got := ParseSteps(content)
	want := []string{"Draft the script", "Record the voiceover"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSteps = %v, want %v", got, want)
	}
}

func TestParseStepsLineFallback(t *testing.T) {
	content := "1. Research the market\n2) Build a landing page\n- Launch an ad campaign\n\n* Measure conversions"
	got := ParseSteps(content)
	want := []string{
		"Research the market",
		"Build a landing page",
		"Launch an ad campaign",
		"Measure conversions",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSteps = %v, want %v", got, want)
	}
}

func TestParseStepsSkipsBracketLines(t *testing.T) {
	content := "{\"broken\": true\nWrite the outline\n[notes]\nEdit the draft"
	got := ParseSteps(content)
	want := []string{"Write the outline", "Edit the draft"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSteps = %v, want %v", got, want)
	}
}

func TestParseStepsEmpty(t *testing.T) {
	if got := ParseSteps("   \n  "); len(got) != 0 {
		t.Fatalf("ParseSteps = %v, want empty", got)
	}
}

func TestIsSupportedModel(t *testing.T) {
	cases := []struct {
		model string
		want  bool
	}{
		{"llama3-70b-8192", true},
		{"llama3-8b-8192", true},
		{"gemma2-9b-it", true},
		{"", false},
		{"gpt-4o", false},
		{"LLAMA3-70B-8192", false},
	}
	for _, tc := range cases {
		if got := IsSupportedModel(tc.model); got != tc.want {
			t.Errorf("IsSupportedModel(%q) = %v, want %v", tc.model, got, tc.want)
		}
	}
}

func TestGenerateSteps(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"steps":[{"task":"Storyboard the video"},{"task":"Shoot the footage"}]}`}},
			},
		})
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", 5*time.Second)
	steps, err := c.GenerateSteps(context.Background(), "make a product video", "Suggested capability order: video-generate", "")
	if err != nil {
		t.Fatalf("GenerateSteps: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotReq.Model != SupportedModels[0] {
		t.Fatalf("model = %q, want default %q", gotReq.Model, SupportedModels[0])
	}
	want := []string{"Storyboard the video", "Shoot the footage"}
	if !reflect.DeepEqual(steps, want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
}

func TestGenerateStepsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", 5*time.Second)
	if _, err := c.GenerateSteps(context.Background(), "anything", "", "llama3-8b-8192"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
