package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/pkg/decode"
)

type claims struct {
	Sub   string   `json:"sub"`
	Roles []string `json:"roles"`
	Exp   int64    `json:"exp"`
}

func TestFromMap(t *testing.T) {
	c, err := decode.FromMap[claims](map[string]any{
		"sub":   "u1",
		"roles": []any{"admin"},
		"exp":   float64(1700000000),
	})
	require.NoError(t, err)
	assert.Equal(t, claims{Sub: "u1", Roles: []string{"admin"}, Exp: 1700000000}, c)
}

func TestInto_Slice(t *testing.T) {
	var out []claims
	require.NoError(t, decode.Into([]any{map[string]any{"sub": "a"}}, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Sub)
}

func TestInto_TypeMismatch(t *testing.T) {
	var out claims
	assert.Error(t, decode.Into(map[string]any{"exp": "soon"}, &out))
}
