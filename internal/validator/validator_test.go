package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v := New()

	require.NotNil(t, v)
	require.NotNil(t, v.Errors)
	require.True(t, v.Valid())
}

func TestValidator_Check(t *testing.T) {
	v := New()

	v.Check(NotBlank(""), "description", "description is required")
	require.False(t, v.Valid())
	require.Equal(t, "description is required", v.Errors["description"])

	// first message wins
	v.Check(false, "description", "another message")
	require.Equal(t, "description is required", v.Errors["description"])
}

func TestValidator_AddError(t *testing.T) {
	v := New()
	v.AddError("oracle", "oracle is required")
	require.Len(t, v.Errors, 1)
}

func TestRules(t *testing.T) {
	require.True(t, NotBlank("market"))
	require.False(t, NotBlank("  "))

	require.True(t, MinRunes("ab", 2))
	require.False(t, MinRunes("a", 2))
	require.True(t, MaxRunes("abc", 3))
	require.False(t, MaxRunes("abcd", 3))

	require.True(t, In("yes_no", "yes_no", "categorical", "scalar"))
	require.False(t, In("binary", "yes_no", "categorical", "scalar"))

	require.True(t, Between(5, 2, 8))
	require.False(t, Between(9, 2, 8))
	require.True(t, Between(int64(2), int64(2), int64(8)))
}
