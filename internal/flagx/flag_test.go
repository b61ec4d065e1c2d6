package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", ":8080"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", ":8080"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "order preserved",
			args:    []string{"-d", "dsn", "-x", "1", "-a", ":9000"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-d", "dsn", "-a", ":9000"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next flag is not consumed as value",
			args:    []string{"-c", "-a", ":1"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "conf.json", ConfigPath([]string{"-a", ":1", "-c", "conf.json"}))
	assert.Equal(t, "other.json", ConfigPath([]string{"-config=other.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", ":1"}))
}
