package openai

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseStream(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name: "Deltas in order until DONE",
			body: "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
				"data: [DONE]\n",
			expected: []string{"Hel", "lo"},
		},
		{
			name: "Stops at finish_reason",
			body: "data: {\"choices\":[{\"delta\":{\"content\":\"done\"},\"finish_reason\":\"stop\"}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n",
			expected: []string{"done"},
		},
		{
			name: "Skips empty deltas and non-data lines",
			body: ": keep-alive\n" +
				"event: ping\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n" +
				"data: [DONE]\n",
			expected: []string{"ok"},
		},
		{
			name: "Skips malformed JSON events",
			body: "data: {not json}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n" +
				"data: [DONE]\n",
			expected: []string{"ok"},
		},
		{
			name:     "EOF without DONE is not an error",
			body:     "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n",
			expected: []string{"partial"},
		},
		{
			name:     "Empty body",
			body:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deltas []string
			err := parseStream(strings.NewReader(tt.body), func(d string) {
				deltas = append(deltas, d)
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !reflect.DeepEqual(deltas, tt.expected) {
				t.Errorf("Expected deltas %v, got %v", tt.expected, deltas)
			}
		})
	}
}
