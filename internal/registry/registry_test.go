package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multilateration-sim/internal/common"
)

type widget struct {
	size float64
}

func newWidget(p Params) (*widget, error) {
	r := p.Read()
	size := r.Float("size", 1)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &widget{size: size}, nil
}

func TestRegistryBuild(t *testing.T) {
	r := New[*widget]("widget")
	require.NoError(t, r.Register("plain", newWidget))

	w, err := r.Build("plain", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.size)

	w, err = r.Build("plain", Params{"size": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, w.size)

	assert.True(t, r.Has("plain"))
	assert.Equal(t, []string{"plain"}, r.Keys())
}

func TestRegistryErrors(t *testing.T) {
	r := New[*widget]("widget")
	require.NoError(t, r.Register("plain", newWidget))

	assert.ErrorIs(t, r.Register("plain", newWidget), common.ErrConfiguration)
	assert.ErrorIs(t, r.Register("", newWidget), common.ErrConfiguration)
	assert.ErrorIs(t, r.Register("nil", nil), common.ErrConfiguration)

	_, err := r.Build("missing", nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = r.Build("plain", Params{"size": "big"})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	assert.Panics(t, func() { r.MustRegister("plain", newWidget) })
}

func TestParams(t *testing.T) {
	p := Params{"f": 2.5, "i": 4, "b": true, "frac": 1.5}

	f, err := p.Float("f", 0)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	i, err := p.Int("i", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, i)

	_, err = p.Int("frac", 0)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	b, err := p.Bool("b", false)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = p.Bool("f", false)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	def, err := p.Float("absent", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, def)

	var nilParams Params
	def, err = nilParams.Float("absent", 9)
	require.NoError(t, err)
	assert.Equal(t, 9.0, def)
}
