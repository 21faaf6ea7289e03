package sequence

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		// 6x^5 - 15x^4 + 10x^3
		return x * x * x * (x*(x*6-15) + 10)
	default:
		return x
	}
}

func validEase(kind string) bool {
	switch kind {
	case "", "linear", "smooth", "cubic":
		return true
	}
	return false
}

// Eval returns the envelope value at t. An empty envelope is 0; before the
// first key and after the last the end values hold.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	i := sort.Search(n, func(i int) bool { return e.Keys[i].T > t }) - 1
	a, b := e.Keys[i], e.Keys[i+1]
	den := b.T - a.T
	if den <= 0 {
		return b.V
	}
	u := easeApply(a.Ease, clamp01((t-a.T)/den))
	return a.V + (b.V-a.V)*u
}

func (e Envelope) validate() error {
	for i, k := range e.Keys {
		if !validEase(k.Ease) {
			return fmt.Errorf("key %d: unknown ease %q", i, k.Ease)
		}
		if i > 0 && k.T < e.Keys[i-1].T {
			return fmt.Errorf("key %d: keys out of order", i)
		}
	}
	return nil
}

// Envelopes are written as a bare keyframe list.
func (e Envelope) MarshalYAML() (any, error) { return e.Keys, nil }

func (e *Envelope) UnmarshalYAML(n *yaml.Node) error {
	var keys []Keyframe
	if err := n.Decode(&keys); err != nil {
		return err
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].T < keys[j].T })
	e.Keys = keys
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Keys == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.Keys)
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var keys []Keyframe
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].T < keys[j].T })
	e.Keys = keys
	return nil
}
