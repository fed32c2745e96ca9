package registry

import (
	"fmt"
	"math"

	"multilateration-sim/internal/common"
)

// Params holds the named numeric and boolean fields configuring a component.
// Values decoded from YAML arrive as int, float64 or bool.
type Params map[string]any

// Float returns the numeric field name, or def when it is absent.
func (p Params) Float(name string, def float64) (float64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return def, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w: parameter %q must be numeric, got %T", common.ErrConfiguration, name, v)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: parameter %q is NaN", common.ErrConfiguration, name)
	}
	return f, nil
}

// Int returns the integral field name, or def when it is absent.
func (p Params) Int(name string, def int) (int, error) {
	f, err := p.Float(name, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: parameter %q must be an integer, got %v", common.ErrConfiguration, name, f)
	}
	return int(f), nil
}

// Bool returns the boolean field name, or def when it is absent.
func (p Params) Bool(name string, def bool) (bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: parameter %q must be a boolean, got %T", common.ErrConfiguration, name, v)
	}
	return b, nil
}

// Reader collects the first error across a sequence of lookups so that
// constructors can read all fields before checking once.
type Reader struct {
	p   Params
	err error
}

// Read wraps p in a Reader.
func (p Params) Read() *Reader {
	return &Reader{p: p}
}

// Float reads a numeric field.
func (r *Reader) Float(name string, def float64) float64 {
	v, err := r.p.Float(name, def)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

// Int reads an integral field.
func (r *Reader) Int(name string, def int) int {
	v, err := r.p.Int(name, def)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

// Bool reads a boolean field.
func (r *Reader) Bool(name string, def bool) bool {
	v, err := r.p.Bool(name, def)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

// Err returns the first lookup error, if any.
func (r *Reader) Err() error {
	return r.err
}
