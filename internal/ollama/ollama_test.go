package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LandyLee-gdut/essay-grader/internal/providers"
)

func TestStreamChat(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Expected path /api/chat, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		fmt.Fprintln(w, `{"message":{"content":"The "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"essay"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer server.Close()

	t.Setenv("OLLAMA_URL", server.URL)

	var deltas []string
	err := New().StreamChat(context.Background(), providers.Request{
		Model:  "llama3.2-vision",
		Prompt: "Extract the text.",
		Images: []providers.Image{{Data: []byte("fake-image")}},
	}, func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := strings.Join(deltas, ""); got != "The essay" {
		t.Errorf("Expected accumulated content \"The essay\", got %q", got)
	}
	if gotPayload["model"] != "llama3.2-vision" {
		t.Errorf("Expected model llama3.2-vision, got %v", gotPayload["model"])
	}

	messages := gotPayload["messages"].([]interface{})
	user := messages[len(messages)-1].(map[string]interface{})
	images, ok := user["images"].([]interface{})
	if !ok || len(images) != 1 {
		t.Errorf("Expected one base64 image on the user message, got %v", user["images"])
	}
}

func TestStreamChatNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("OLLAMA_URL", server.URL)

	err := New().StreamChat(context.Background(), providers.Request{Model: "missing"}, func(string) {})
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}
