package simulate

import (
	"strings"
	"testing"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
)

func mustSteps(t *testing.T, script string) []Step {
	t.Helper()
	steps, err := ParseSteps([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	return steps
}

func mustPolicy(t *testing.T, decl model.PolicyDecl) *model.FocusPolicy {
	t.Helper()
	p, err := model.NewFocusPolicy(decl)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseSteps(t *testing.T) {
	steps := mustSteps(t, `
- manage: { client: 10, children: [11, 12] }
- press: { window: 11, binding: "A-1" }
- expect-focus:
`)
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[0].Action != "manage" || intParam(steps[0].Params, "client", 0) != 10 {
		t.Errorf("step 1 = %+v", steps[0])
	}
	if steps[2].Action != "expect-focus" || steps[2].Params != nil {
		t.Errorf("step 3 = %+v", steps[2])
	}
}

func TestParseSteps_RejectsMultiKeyStep(t *testing.T) {
	_, err := ParseSteps([]byte(`- { enter: { window: 1 }, leave: { window: 1 } }`))
	if err == nil || !strings.Contains(err.Error(), "exactly one action") {
		t.Errorf("got %v, want one-action error", err)
	}
}

func TestStepsFromList(t *testing.T) {
	steps, err := StepsFromList([]interface{}{
		map[string]interface{}{"manage": map[string]interface{}{"client": float64(10)}},
		map[string]interface{}{"expect-focus": nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || intParam(steps[0].Params, "client", 0) != 10 {
		t.Errorf("got %+v", steps)
	}

	if _, err := StepsFromList([]interface{}{"enter"}); err == nil {
		t.Error("non-object step should fail")
	}
	if _, err := StepsFromList([]interface{}{map[string]interface{}{"enter": "10"}}); err == nil {
		t.Error("non-object params should fail")
	}
}

func TestRun_EnterThenClickFocusesOnce(t *testing.T) {
	p := mustPolicy(t, model.PolicyDecl{
		ClientButtons: []string{"A-1"},
		ClickFocus:    true,
		EnterFocus:    true,
	})
	res, err := Run(p, mustSteps(t, `
- manage: { client: 10 }
- enter: { window: 10 }
- press: { window: 10, button: 1 }
- expect-focus: { client: 10 }
`), Options{}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("run failed: %s", res.Error)
	}
	if got := res.Results[0].Calls; len(got) != 1 || got[0] != "grab 10 A-1" {
		t.Errorf("manage calls = %v", got)
	}
	if got := res.Results[1].Calls; len(got) != 1 || got[0] != "focus 10" {
		t.Errorf("enter calls = %v", got)
	}
	if got := res.Results[2].Calls; len(got) != 0 {
		t.Errorf("press on focused client should make no calls, got %v", got)
	}
	if res.Focused != "10" || res.Grabs != 1 {
		t.Errorf("focused=%s grabs=%d", res.Focused, res.Grabs)
	}
}

func TestRun_DefaultPolicyLeaveIntoChild(t *testing.T) {
	res, err := Run(model.DefaultFocusPolicy(), mustSteps(t, `
- manage: { client: 10, children: [11] }
- enter: { window: 10 }
- leave: { window: 10, into: 11 }
- expect-focus: { client: 10 }
- leave: { window: 11 }
- expect-focus: {}
`), Options{}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("run failed: %s", res.Error)
	}
	if got := res.Results[4].Calls; len(got) != 1 || got[0] != "unfocus 10" {
		t.Errorf("leave calls = %v", got)
	}
	if res.Focused != "none" {
		t.Errorf("focused = %s, want none", res.Focused)
	}
}

func TestRun_ExpectFocusFailure(t *testing.T) {
	steps := mustSteps(t, `
- manage: { client: 10 }
- expect-focus: { client: 10 }
- enter: { window: 10 }
`)
	res, err := Run(model.DefaultFocusPolicy(), steps, Options{}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || res.Completed != 2 {
		t.Errorf("ok=%v completed=%d, want false/2", res.OK, res.Completed)
	}
	if !strings.HasPrefix(res.Error, "step 2:") {
		t.Errorf("error = %q", res.Error)
	}

	res, err = Run(model.DefaultFocusPolicy(), steps, Options{StopOnError: true}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 2 || res.Completed != 1 {
		t.Errorf("stop-on-error: results=%d completed=%d, want 2/1", len(res.Results), res.Completed)
	}
}

func TestRun_StepErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unknown action", `- wiggle: { window: 1 }`, "unknown step type"},
		{"missing client", `- manage: {}`, "client is required"},
		{"bad binding", `- press: { window: 10, binding: "A-A-1" }`, "repeats"},
		{"no button", `- press: { window: 10 }`, "binding or button is required"},
		{"unmanage unknown", `- unmanage: { client: 10 }`, "not managed"},
		{"bad children", `- manage: { client: 10, children: 11 }`, "list of window ids"},
		{"client above uint32", `- manage: { client: 4294967306 }`, "window id between 0 and 4294967295"},
		{"negative window", `- enter: { window: -1 }`, "window id between"},
		{"child above uint32", `- manage: { client: 10, children: [4294967307] }`, "invalid window id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(model.DefaultFocusPolicy(), mustSteps(t, tt.script), Options{}, logger.Nop())
			if err != nil {
				t.Fatal(err)
			}
			if res.OK {
				t.Fatal("expected failure")
			}
			if !strings.Contains(res.Results[0].Error, tt.want) {
				t.Errorf("error = %q, want substring %q", res.Results[0].Error, tt.want)
			}
		})
	}
}

func TestRun_UnmanageReleasesGrabs(t *testing.T) {
	res, err := Run(model.DefaultFocusPolicy(), mustSteps(t, `
- manage: { client: 10 }
- unmanage: { client: 10 }
`), Options{Screens: 2}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("run failed: %s", res.Error)
	}
	if got := len(res.Results[1].Calls); got != 3 {
		t.Errorf("unmanage made %d calls, want 3 ungrabs", got)
	}
	if res.Grabs != 0 {
		t.Errorf("grabs = %d, want 0", res.Grabs)
	}
}

func TestRun_ScreensBounded(t *testing.T) {
	steps := mustSteps(t, `- manage: { client: 10 }`)
	if _, err := Run(model.DefaultFocusPolicy(), steps, Options{Screens: MaxScreens + 1}, logger.Nop()); err == nil {
		t.Errorf("screens above %d should be rejected", MaxScreens)
	}
	if _, err := Run(model.DefaultFocusPolicy(), steps, Options{Screens: 1_000_000_000}, logger.Nop()); err == nil {
		t.Error("huge screen count should be rejected")
	}
	res, err := Run(model.DefaultFocusPolicy(), steps, Options{Screens: MaxScreens}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Errorf("run failed: %s", res.Error)
	}
}
