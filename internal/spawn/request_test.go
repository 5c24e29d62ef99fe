package spawn

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Executable(t *testing.T) {
	assert.Equal(t, "/bin/ls", Request{Args: []string{"/bin/ls", "-l"}}.Executable())
	assert.Equal(t, "/bin/echo", Request{Path: "/bin/echo", Args: []string{"hello"}}.Executable())
	assert.Equal(t, "/bin/true", Request{Path: "/bin/true"}.Executable())
	assert.Equal(t, "", Request{}.Executable())
}

func TestRequest_FlagsHex(t *testing.T) {
	assert.Equal(t, "0x0000", Request{}.FlagsHex())
	assert.Equal(t, "0x4000", Request{Flags: 0x4000}.FlagsHex())
	assert.Equal(t, "0xffff", Request{Flags: -1}.FlagsHex())
}

func TestRequest_ValidateNoExecutable(t *testing.T) {
	err := Request{}.Validate()
	assert.ErrorIs(t, err, ErrNoExecutable)
	require.NoError(t, Request{Path: "/bin/true", Env: []string{}}.Validate())
}

func TestRequest_ValidateArgMax(t *testing.T) {
	limit := argMax()
	if limit <= 0 {
		t.Skip("ARG_MAX unknown on this platform")
	}
	big := strings.Repeat("x", int(limit))
	err := Request{Args: []string{"/bin/echo", big}, Env: []string{}}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArgTooLong))
}

func TestArgSize(t *testing.T) {
	assert.Equal(t, int64(8), argSize(nil))
	assert.Equal(t, int64(2+8+8), argSize([]string{"a"}))
}
