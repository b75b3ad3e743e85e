package server

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/output"
	"github.com/mj1618/wmpolicy/internal/simulate"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(model.DefaultFocusPolicy(), "test.yaml", logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return tc.Text
}

func TestNew_RequiresPolicy(t *testing.T) {
	if _, err := New(nil, "", logger.Nop()); err == nil {
		t.Error("nil policy should fail")
	}
}

func TestHandlePolicy(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handlePolicy(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	var got output.PolicyResult
	if err := yaml.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Source != "test.yaml" || got.ClickFocus || !got.EnterFocus || !got.LeaveUnfocus {
		t.Errorf("got %+v", got)
	}
	if len(got.Bindings) != 3 || got.Bindings[2].Binding != "A-3" {
		t.Errorf("bindings = %+v", got.Bindings)
	}
}

func TestSetPolicy_ReplacesServedPolicy(t *testing.T) {
	s := newTestServer(t)
	next, err := model.NewFocusPolicy(model.PolicyDecl{ClientButtons: []string{"W-1"}, ClickFocus: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetPolicy(next); err != nil {
		t.Fatal(err)
	}
	if s.Policy() != next {
		t.Error("policy not replaced")
	}
	if err := s.SetPolicy(nil); err == nil {
		t.Error("nil policy should be rejected")
	}
	if s.Policy() != next {
		t.Error("rejected swap changed the policy")
	}
}

func TestHandleParseBinding(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleParseBinding(context.Background(), callRequest(map[string]any{
		"bindings": []interface{}{"A-C-Right", "W-1"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var got parseResult
	if err := yaml.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Bindings) != 2 || got.Bindings[0].Binding != "C-A-3" || got.Bindings[1].Input != "" {
		t.Errorf("got %+v", got.Bindings)
	}
}

func TestHandleParseBinding_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing", map[string]any{}, "non-empty array"},
		{"bad entry", map[string]any{"bindings": []interface{}{"A-1", "A-M-1"}}, "bindings[1]"},
		{"not string", map[string]any{"bindings": []interface{}{float64(1)}}, "not a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleParseBinding(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatal(err)
			}
			if !res.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, res); !strings.Contains(text, tt.want) {
				t.Errorf("result %q should contain %q", text, tt.want)
			}
		})
	}
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleValidate(context.Background(), callRequest(map[string]any{
		"config": "client_buttons: [\"C-2\"]\nclick_focus: true\n",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	res, err = s.handleValidate(context.Background(), callRequest(map[string]any{
		"config": "client_buttons: [\"X-1\", \"A-9\"]\n",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("invalid declaration should be an error result")
	}
	var got output.ValidationResult
	if err := yaml.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Valid || len(got.Errors) != 2 {
		t.Errorf("got %+v, want two errors", got)
	}
}

func TestHandleValidate_UnknownKey(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleValidate(context.Background(), callRequest(map[string]any{
		"config": "focus_on_hover: true\n",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("unknown key should be rejected")
	}
}

func TestHandleSimulate(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSimulate(context.Background(), callRequest(map[string]any{
		"steps": []interface{}{
			map[string]interface{}{"manage": map[string]interface{}{"client": float64(10)}},
			map[string]interface{}{"enter": map[string]interface{}{"window": float64(10)}},
			map[string]interface{}{"expect-focus": map[string]interface{}{"client": float64(10)}},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var got simulate.Result
	if err := yaml.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if !got.OK || got.Completed != 3 || got.Focused != "10" || got.Grabs != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestHandleSimulate_ConfigOverride(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSimulate(context.Background(), callRequest(map[string]any{
		"config": "enter_focus: false\n",
		"steps": []interface{}{
			map[string]interface{}{"manage": map[string]interface{}{"client": float64(10)}},
			map[string]interface{}{"enter": map[string]interface{}{"window": float64(10)}},
			map[string]interface{}{"expect-focus": map[string]interface{}{"client": float64(10)}},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("enter should not focus with enter_focus off")
	}
	if !strings.Contains(resultText(t, res), "expected focus on 10") {
		t.Errorf("got %s", resultText(t, res))
	}
}

func TestHandleSimulate_BadSteps(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSimulate(context.Background(), callRequest(map[string]any{
		"steps": "enter",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("non-array steps should fail")
	}
}

func TestHandleSimulate_TooManyScreens(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSimulate(context.Background(), callRequest(map[string]any{
		"screens": float64(1e9),
		"steps": []interface{}{
			map[string]interface{}{"manage": map[string]interface{}{"client": float64(10)}},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("screen count above the limit should be an error result")
	}
	if text := resultText(t, res); !strings.Contains(text, "screens must be between") {
		t.Errorf("got %q", text)
	}
}
