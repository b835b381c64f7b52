package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestHTTPClientSendsSchemaAndSystemPrompt(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk-test", "gpt-test", zap.NewNop())
	out, err := client.Generate(context.Background(), Request{
		System:     "be strict",
		Messages:   []Message{{Role: RoleUser, Content: "hello"}},
		SchemaName: "trait_inference",
		Schema:     &Schema{Type: TypeObject, Properties: map[string]*Schema{"ok": {Type: TypeBoolean}}, Required: []string{"ok"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected content %q", out)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be strict" {
		t.Fatalf("unexpected system message %v", first)
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", rf["type"])
	}
	js, _ := rf["json_schema"].(map[string]any)
	if js["name"] != "trait_inference" {
		t.Fatalf("expected schema name trait_inference, got %v", js["name"])
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk-test", "gpt-test", nil)
	if _, err := client.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestHTTPClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk-test", "gpt-test", nil)
	if _, err := client.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestSchemaJSONSchemaObjectsAreClosed(t *testing.T) {
	s := &Schema{
		Type:     TypeObject,
		Required: []string{"score"},
		Properties: map[string]*Schema{
			"score": {Type: TypeNumber, Minimum: Float(0), Maximum: Float(100)},
			"kind":  {Type: TypeString, Enum: []string{"a", "b"}},
		},
	}
	out := s.JSONSchema()
	if out["additionalProperties"] != false {
		t.Fatalf("expected additionalProperties=false")
	}
	props := out["properties"].(map[string]any)
	score := props["score"].(map[string]any)
	if score["minimum"] != 0.0 || score["maximum"] != 100.0 {
		t.Fatalf("unexpected bounds %v", score)
	}
	kind := props["kind"].(map[string]any)
	if enum := kind["enum"].([]string); len(enum) != 2 {
		t.Fatalf("unexpected enum %v", enum)
	}
}

func TestToGeminiSchema(t *testing.T) {
	s := &Schema{
		Type:     TypeObject,
		Order:    []string{"tags"},
		Required: []string{"tags"},
		Properties: map[string]*Schema{
			"tags": {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
	}
	gs := toGeminiSchema(s)
	if gs.Type != genai.TypeObject {
		t.Fatalf("expected object, got %v", gs.Type)
	}
	tags := gs.Properties["tags"]
	if tags == nil || tags.Type != genai.TypeArray || tags.Items == nil || tags.Items.Type != genai.TypeString {
		t.Fatalf("unexpected tags schema %+v", tags)
	}
	if len(gs.PropertyOrdering) != 1 || gs.PropertyOrdering[0] != "tags" {
		t.Fatalf("unexpected ordering %v", gs.PropertyOrdering)
	}
}

func TestGeminiContentsMapsRoles(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Content: "answer"},
		{Role: RoleUser, Content: "  "},
	})
	if len(contents) != 2 {
		t.Fatalf("expected blank message to be skipped, got %d contents", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) || contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("unexpected roles %q %q", contents[0].Role, contents[1].Role)
	}
	cfg := geminiConfig(Request{System: "sys", Schema: &Schema{Type: TypeObject}})
	if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil || cfg.SystemInstruction == nil {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestMockClientSequence(t *testing.T) {
	m := &MockClient{Responses: []string{"one", "two"}}
	ctx := context.Background()
	for _, want := range []string{"one", "two", "two"} {
		got, err := m.Generate(ctx, Request{})
		if err != nil || got != want {
			t.Fatalf("expected %q, got %q (%v)", want, got, err)
		}
	}
	if len(m.Calls()) != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", len(m.Calls()))
	}
}
