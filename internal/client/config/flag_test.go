package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		args     []string
		wantAPI  string
		wantPath string
	}{
		{name: "both flags", args: []string{"cmd", "-a", "https://api.example", "-d", "/tmp/admin.db"},
			wantAPI: "https://api.example", wantPath: "/tmp/admin.db"},
		{name: "no flags keep defaults", args: []string{"cmd"},
			wantAPI: "http://localhost:3000/api", wantPath: "admin.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			cfg := &Config{}
			cfg.LoadDefaults()

			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Equal(t, tt.wantAPI, cfg.APIBaseURL)
			assert.Equal(t, tt.wantPath, cfg.DatabasePath)
		})
	}
}
