// Package simulate replays a script of pointer and window events through a
// dispatcher attached to an in-memory host.
package simulate

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/wmpolicy/internal/dispatch"
	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/platform/sim"
)

// Step is one scripted action with its parameters.
type Step struct {
	Action string
	Params map[string]interface{}
}

// StepResult is the output for a single step.
type StepResult struct {
	Step   int      `yaml:"step"            json:"step"`
	OK     bool     `yaml:"ok"              json:"ok"`
	Action string   `yaml:"action"          json:"action"`
	Error  string   `yaml:"error,omitempty" json:"error,omitempty"`
	Calls  []string `yaml:"calls,omitempty" json:"calls,omitempty"`
}

// Result is the output of a whole run.
type Result struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Focused   string       `yaml:"focused"         json:"focused"`
	Grabs     int          `yaml:"grabs"           json:"grabs"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// MaxScreens bounds the size of the simulated host.
const MaxScreens = 64

// Options configures a run.
type Options struct {
	Screens     int
	StopOnError bool
}

// Actions lists the supported step types.
var Actions = []string{"manage", "unmanage", "enter", "leave", "press", "release", "expect-focus"}

// ParseSteps decodes a YAML (or JSON) list of single-key step maps:
//
//	- manage: { client: 10, children: [11] }
//	- enter: { window: 10 }
//	- press: { window: 10, binding: "A-1" }
func ParseSteps(data []byte) ([]Step, error) {
	var raw []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse steps: %w", err)
	}
	steps := make([]Step, 0, len(raw))
	for i, m := range raw {
		if len(m) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(m))
		}
		for action, params := range m {
			steps = append(steps, Step{Action: action, Params: params})
		}
	}
	return steps, nil
}

// StepsFromList converts decoded JSON (e.g. an MCP tool argument) to steps.
func StepsFromList(list []interface{}) ([]Step, error) {
	steps := make([]Step, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok || len(m) != 1 {
			return nil, fmt.Errorf("step %d: expected an object with exactly one action key", i+1)
		}
		for action, v := range m {
			var params map[string]interface{}
			if v != nil {
				if params, ok = v.(map[string]interface{}); !ok {
					return nil, fmt.Errorf("step %d: parameters for %q must be an object", i+1, action)
				}
			}
			steps = append(steps, Step{Action: action, Params: params})
		}
	}
	return steps, nil
}

// Run executes steps against a fresh sim host governed by policy.
// The returned error covers setup failures only; step failures are reported in the Result.
func Run(policy *model.FocusPolicy, steps []Step, opts Options, log *logger.Logger) (Result, error) {
	screens := opts.Screens
	if screens <= 0 {
		screens = 1
	}
	if screens > MaxScreens {
		return Result{}, fmt.Errorf("screens must be between 1 and %d, got %d", MaxScreens, opts.Screens)
	}
	host := sim.NewHost(screens)
	d, err := dispatch.New(policy, host.Provider(), log)
	if err != nil {
		return Result{}, err
	}

	res := Result{OK: true, Steps: len(steps)}
	for i, step := range steps {
		sr := StepResult{Step: i + 1, Action: step.Action}
		err := execute(d, host, step)
		for _, c := range host.Drain() {
			sr.Calls = append(sr.Calls, c.String())
		}
		if err != nil {
			sr.Error = err.Error()
			res.Results = append(res.Results, sr)
			res.OK = false
			if res.Error == "" {
				res.Error = fmt.Sprintf("step %d: %s", sr.Step, err)
			}
			log.Debug("Simulation step failed", "step", sr.Step, "action", step.Action, "error", err.Error())
			if opts.StopOnError {
				break
			}
			continue
		}
		sr.OK = true
		res.Completed++
		res.Results = append(res.Results, sr)
	}

	res.Focused = d.Focused().String()
	res.Grabs = host.GrabCount()
	return res, nil
}

func execute(d *dispatch.Dispatcher, host *sim.Host, step Step) error {
	p := step.Params
	switch step.Action {
	case "manage":
		client, err := requiredWindowParam(p, "client")
		if err != nil {
			return err
		}
		children, err := windowListParam(p, "children")
		if err != nil {
			return err
		}
		if err := host.AddClient(client, children...); err != nil {
			return err
		}
		if err := d.Manage(client); err != nil {
			_ = host.RemoveClient(client)
			return err
		}
		return nil
	case "unmanage":
		client, err := requiredWindowParam(p, "client")
		if err != nil {
			return err
		}
		err = d.Unmanage(client)
		if rmErr := host.RemoveClient(client); err == nil {
			err = rmErr
		}
		return err
	case "enter":
		w, err := requiredWindowParam(p, "window")
		if err != nil {
			return err
		}
		return d.Dispatch(dispatch.Event{Kind: dispatch.EventEnter, Window: w})
	case "leave":
		w, err := requiredWindowParam(p, "window")
		if err != nil {
			return err
		}
		into, err := windowParam(p, "into")
		if err != nil {
			return err
		}
		return d.Dispatch(dispatch.Event{Kind: dispatch.EventLeave, Window: w, Related: into})
	case "press", "release":
		w, err := requiredWindowParam(p, "window")
		if err != nil {
			return err
		}
		b, err := pointerParam(p)
		if err != nil {
			return err
		}
		kind, err := dispatch.ParseEventKind(step.Action)
		if err != nil {
			return err
		}
		return d.Dispatch(dispatch.Event{Kind: kind, Window: w, Modifiers: b.Modifiers, Button: b.Button})
	case "expect-focus":
		want, err := windowParam(p, "client")
		if err != nil {
			return err
		}
		if got := d.Focused(); got != want {
			return fmt.Errorf("expected focus on %s, focus is on %s", want, got)
		}
		return nil
	default:
		supported := append([]string(nil), Actions...)
		sort.Strings(supported)
		return fmt.Errorf("unknown step type %q (supported: %v)", step.Action, supported)
	}
}

// pointerParam reads the modifiers+button of a press/release step, given as
// either binding: "A-1" or button: 1.
func pointerParam(p map[string]interface{}) (model.Binding, error) {
	if s := stringParam(p, "binding", ""); s != "" {
		return model.ParseBinding(s)
	}
	if s := stringParam(p, "button", ""); s != "" {
		button, err := model.ParseButton(s)
		if err != nil {
			return model.Binding{}, err
		}
		return model.Binding{Button: button}, nil
	}
	return model.Binding{}, fmt.Errorf("binding or button is required")
}
