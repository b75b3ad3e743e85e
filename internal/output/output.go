package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/wmpolicy/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Out is where Print writes.
var Out io.Writer = os.Stdout

// ParseFormat converts a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
	}
}

// BindingInfo is the printable form of a parsed binding.
type BindingInfo struct {
	Input     string   `yaml:"input,omitempty" json:"input,omitempty"`
	Binding   string   `yaml:"binding"         json:"binding"`
	Modifiers []string `yaml:"modifiers"       json:"modifiers"`
	Button    int      `yaml:"button"          json:"button"`
}

// NewBindingInfo describes b; input is the source string, omitted when it is already canonical.
func NewBindingInfo(input string, b model.Binding) BindingInfo {
	canon := b.String()
	if input == canon {
		input = ""
	}
	return BindingInfo{
		Input:     input,
		Binding:   canon,
		Modifiers: b.Modifiers.Tokens(),
		Button:    int(b.Button),
	}
}

// PolicyResult is the printable form of a focus policy.
type PolicyResult struct {
	Source       string        `yaml:"source,omitempty" json:"source,omitempty"`
	ClickFocus   bool          `yaml:"click_focus"      json:"click_focus"`
	EnterFocus   bool          `yaml:"enter_focus"      json:"enter_focus"`
	LeaveUnfocus bool          `yaml:"leave_unfocus"    json:"leave_unfocus"`
	Bindings     []BindingInfo `yaml:"client_buttons"   json:"client_buttons"`
}

// NewPolicyResult describes p. source names where it was loaded from, if anywhere.
func NewPolicyResult(source string, p *model.FocusPolicy) PolicyResult {
	bindings := p.Bindings()
	infos := make([]BindingInfo, len(bindings))
	for i, b := range bindings {
		infos[i] = NewBindingInfo("", b)
	}
	return PolicyResult{
		Source:       source,
		ClickFocus:   p.ShouldFocusOnClick(),
		EnterFocus:   p.ShouldFocusOnEnter(),
		LeaveUnfocus: p.ShouldUnfocusOnLeave(),
		Bindings:     infos,
	}
}

// ValidationResult reports whether a declaration is valid. Policy is set only when it is.
type ValidationResult struct {
	Source  string        `yaml:"source,omitempty"  json:"source,omitempty"`
	Valid   bool          `yaml:"valid"             json:"valid"`
	Errors  []string      `yaml:"errors,omitempty"  json:"errors,omitempty"`
	Grammar string        `yaml:"grammar,omitempty" json:"grammar,omitempty"`
	Policy  *PolicyResult `yaml:"policy,omitempty"  json:"policy,omitempty"`
}

// NewValidationResult describes the outcome of building a policy. An
// aggregated error is split into one entry per failure.
func NewValidationResult(source string, p *model.FocusPolicy, err error) ValidationResult {
	if err == nil {
		pr := NewPolicyResult("", p)
		return ValidationResult{Source: source, Valid: true, Policy: &pr}
	}
	res := ValidationResult{Source: source, Errors: ErrorList(err)}
	var berr *model.BindingError
	if errors.As(err, &berr) {
		res.Grammar = model.BindingGrammar
	}
	return res
}

// ErrorList flattens a multierror into its messages.
func ErrorList(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}

// Print serializes v to Out in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(Out, v)
		}
		return PrintJSON(Out, v)
	case FormatYAML:
		return PrintYAML(Out, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to w as compact single-line JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to w as indented JSON.
func PrintPrettyJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
