package service

import "testing"

func TestCleanLLMJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bom and spaces", in: "\uFEFF  {\"a\":1}  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanLLMJSONResponse(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `prefix {"a":{"b":"}"}} suffix {"c":2}`, want: `{"a":{"b":"}"}}`},
		{in: `{"s":"escaped \" quote {"}`, want: `{"s":"escaped \" quote {"}`},
		{in: `no object here`, want: ``},
		{in: `{"unterminated": true`, want: ``},
	}
	for _, tt := range tests {
		if got := extractFirstJSONObject(tt.in); got != tt.want {
			t.Fatalf("extract(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := truncateForLog("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncateForLog("ñandú grande", 5); got != "ñandú..." {
		t.Fatalf("unexpected %q", got)
	}
}
