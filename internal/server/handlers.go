package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/wmpolicy/internal/config"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/output"
	"github.com/mj1618/wmpolicy/internal/simulate"
)

// toText serializes a tool result to YAML for the MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

// parseResult is the parse_binding tool output.
type parseResult struct {
	OK       bool                 `yaml:"ok"`
	Bindings []output.BindingInfo `yaml:"bindings,omitempty"`
	Errors   []string             `yaml:"errors,omitempty"`
}

func (s *Server) handlePolicy(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(output.NewPolicyResult(s.source, s.Policy()))), nil
}

func (s *Server) handleParseBinding(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["bindings"].([]interface{})
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("bindings must be a non-empty array of strings"), nil
	}

	res := parseResult{OK: true}
	for i, v := range raw {
		input, ok := v.(string)
		if !ok {
			res.OK = false
			res.Errors = append(res.Errors, fmt.Sprintf("bindings[%d]: not a string", i))
			continue
		}
		b, err := model.ParseBinding(input)
		if err != nil {
			res.OK = false
			res.Errors = append(res.Errors, fmt.Sprintf("bindings[%d]: %s", i, err))
			continue
		}
		res.Bindings = append(res.Bindings, output.NewBindingInfo(input, b))
	}

	if !res.OK {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := request.GetString("config", "")
	p, err := policyFromDoc(doc)
	res := output.NewValidationResult("", p, err)
	if !res.Valid {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleSimulate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["steps"].([]interface{})
	if !ok {
		return mcp.NewToolResultError("steps must be an array of step objects"), nil
	}
	steps, err := simulate.StepsFromList(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	policy := s.Policy()
	if doc := request.GetString("config", ""); doc != "" {
		if policy, err = policyFromDoc(doc); err != nil {
			return mcp.NewToolResultError(toText(output.NewValidationResult("", nil, err))), nil
		}
	}

	opts := simulate.Options{
		Screens:     request.GetInt("screens", 1),
		StopOnError: request.GetBool("stop_on_error", false),
	}
	res, err := simulate.Run(policy, steps, opts, s.log)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !res.OK {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func policyFromDoc(doc string) (*model.FocusPolicy, error) {
	f, err := config.Decode(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return f.Policy()
}
