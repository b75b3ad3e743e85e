package simulate

import (
	"fmt"
	"math"

	"github.com/mj1618/wmpolicy/internal/model"
)

// Parameter extraction helpers for step maps. YAML decodes numbers as int,
// JSON as float64.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		case uint64:
			return int(n)
		}
	}
	return defaultVal
}

func windowParam(params map[string]interface{}, key string) (model.WindowID, error) {
	n := intParam(params, key, 0)
	if n < 0 || int64(n) > math.MaxUint32 {
		return model.None, fmt.Errorf("%s must be a window id between 0 and %d, got %d", key, uint32(math.MaxUint32), n)
	}
	return model.WindowID(n), nil
}

func requiredWindowParam(params map[string]interface{}, key string) (model.WindowID, error) {
	w, err := windowParam(params, key)
	if err != nil {
		return model.None, err
	}
	if w == model.None {
		return model.None, fmt.Errorf("%s is required", key)
	}
	return w, nil
}

func windowListParam(params map[string]interface{}, key string) ([]model.WindowID, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be a list of window ids", key)
	}
	out := make([]model.WindowID, 0, len(list))
	for i := range list {
		n := intParam(map[string]interface{}{"v": list[i]}, "v", -1)
		if n <= 0 || int64(n) > math.MaxUint32 {
			return nil, fmt.Errorf("%s[%d]: invalid window id %v", key, i, list[i])
		}
		out = append(out, model.WindowID(n))
	}
	return out, nil
}
