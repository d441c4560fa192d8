package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	t.Setenv("GINEE_TEST_KEY", "from-os")
	Env = map[string]string{"GINEE_TEST_KEY": "from-file"}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, "from-file", GetEnv("GINEE_TEST_KEY", "def"))

	Env = map[string]string{}
	assert.Equal(t, "from-os", GetEnv("GINEE_TEST_KEY", "def"))
	assert.Equal(t, "def", GetEnv("GINEE_TEST_MISSING", "def"))
}

func TestGetEnvInt(t *testing.T) {
	Env = map[string]string{"WORKERS": "7", "BROKEN": "seven"}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, 7, GetEnvInt("WORKERS", 3))
	assert.Equal(t, 3, GetEnvInt("BROKEN", 3))
	assert.Equal(t, 3, GetEnvInt("UNSET_WORKERS", 3))
}

func TestGetEnvBool(t *testing.T) {
	Env = map[string]string{"A": "true", "B": "1", "C": "off", "D": "YES"}
	t.Cleanup(func() { Env = nil })

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"A", false, true},
		{"B", false, true},
		{"C", true, false},
		{"D", false, true},
		{"UNSET", true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetEnvBool(tt.key, tt.def), tt.key)
	}
}
