package app

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidArgsRejectsPositionalArgs(t *testing.T) {
	ran := false
	a := NewApp("test-app", "test",
		WithNoConfig(),
		WithDefaultValidArgs(),
		WithRunFunc(func() error { ran = true; return nil }),
	)

	a.Command().SetArgs([]string{"unexpected"})
	err := a.Run()
	require.Error(t, err)
	assert.False(t, ran)
}

func TestDefaultValidArgsAcceptsNoArgs(t *testing.T) {
	ran := false
	a := NewApp("test-app", "test",
		WithNoConfig(),
		WithDefaultValidArgs(),
		WithRunFunc(func() error { ran = true; return nil }),
	)

	a.Command().SetArgs([]string{})
	require.NoError(t, a.Run())
	assert.True(t, ran)
}

func TestValidArgsCustomValidator(t *testing.T) {
	a := NewApp("test-app", "test",
		WithNoConfig(),
		WithValidArgs(cobra.ExactArgs(1)),
		WithRunFunc(func() error { return nil }),
	)

	a.Command().SetArgs([]string{"one"})
	require.NoError(t, a.Run())

	a.Command().SetArgs([]string{"one", "two"})
	require.Error(t, a.Run())
}

func TestWithoutArgValidatorArgsPassThrough(t *testing.T) {
	ran := false
	a := NewApp("test-app", "test",
		WithNoConfig(),
		WithRunFunc(func() error { ran = true; return nil }),
	)

	a.Command().SetArgs([]string{"anything"})
	require.NoError(t, a.Run())
	assert.True(t, ran)
}
