package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoCredentials(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
	}{
		{"nil bag", nil},
		{"empty bag", Capabilities{}},
		{"missing key", Capabilities{"browserName": "chrome"}},
		{"nil value", Capabilities{CapabilityKey: nil}},
		{"list", Capabilities{CapabilityKey: []any{"bob", "pw"}}},
		{"string", Capabilities{CapabilityKey: "bob:pw"}},
		{"number", Capabilities{CapabilityKey: 42}},
		{"nil pointer", Capabilities{CapabilityKey: (*Credentials)(nil)}},
		{"nil map", Capabilities{CapabilityKey: map[string]any(nil)}},
		{"nil string map", Capabilities{CapabilityKey: map[string]string(nil)}},
		{"nil capabilities", Capabilities{CapabilityKey: Capabilities(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Extract(tt.caps)
			require.NoError(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestExtract_Identity(t *testing.T) {
	want := New(WithAuthType(AuthNTLM), WithUsername("bob"))
	caps := Capabilities{"browserName": "firefox"}
	caps.SetCredentials(want)

	got, err := Extract(caps)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestExtract_Value(t *testing.T) {
	want := *New(WithUsername("bob"))
	got, err := Extract(Capabilities{CapabilityKey: want})
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestExtract_Map(t *testing.T) {
	caps := Capabilities{
		CapabilityKey: map[string]any{
			"authType": "NTLM",
			"username": "bob",
			"port":     "8080",
		},
	}

	got, err := Extract(caps)
	require.NoError(t, err)
	assert.Equal(t, New(WithAuthType(AuthNTLM), WithUsername("bob"), WithPort(8080)), got)
}

func TestExtract_StringMap(t *testing.T) {
	caps := Capabilities{
		CapabilityKey: map[string]string{"authType": "normal", "realm": "corp", "port": "x"},
	}

	got, err := Extract(caps)
	require.NoError(t, err)
	assert.Equal(t, New(WithAuthType(AuthNormal), WithRealm("corp")), got)
}

func TestExtract_NestedCapabilities(t *testing.T) {
	caps := Capabilities{
		CapabilityKey: Capabilities{"username": "carol"},
	}

	got, err := Extract(caps)
	require.NoError(t, err)
	assert.Equal(t, New(WithUsername("carol")), got)
}

func TestExtract_PropagatesErrors(t *testing.T) {
	caps := Capabilities{
		CapabilityKey: map[string]any{"authType": "kerberos"},
	}

	got, err := Extract(caps)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
