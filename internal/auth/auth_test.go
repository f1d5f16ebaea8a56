package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetToken_FromEnv(t *testing.T) {
	tests := []struct {
		name       string
		envToken   string
		wantSource TokenSource
		wantToken  string
	}{
		{
			name:       "from environment variable",
			envToken:   "ghp_test123",
			wantSource: SourceEnv,
			wantToken:  "ghp_test123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envVarName, tt.envToken)

			source, token := GetToken()

			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}

			if token != tt.wantToken {
				t.Errorf("token = %v, want %v", token, tt.wantToken)
			}
		})
	}
}

func TestGetToken_FileFallback(t *testing.T) {
	cfgRoot := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgRoot)
	t.Setenv(envVarName, "")
	os.Unsetenv(envVarName)

	dir := filepath.Join(cfgRoot, "vizdash")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("ghp_fromfile\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	source, token := GetToken()

	// The keyring may or may not be reachable in the test environment;
	// the file fallback must win when it is not.
	if source == SourceKeyring {
		t.Skip("keyring available in test environment")
	}

	if source != SourceFile {
		t.Errorf("source = %v, want %v", source, SourceFile)
	}

	if token != "ghp_fromfile" {
		t.Errorf("token = %q, want %q (trimmed)", token, "ghp_fromfile")
	}
}

func TestWriteAndDeleteTokenFile(t *testing.T) {
	cfgRoot := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgRoot)

	if err := writeTokenFile("ghp_abc"); err != nil {
		t.Fatalf("writeTokenFile() error = %v", err)
	}

	if got := readTokenFile(); got != "ghp_abc" {
		t.Errorf("readTokenFile() = %q, want %q", got, "ghp_abc")
	}

	if err := deleteTokenFile(); err != nil {
		t.Fatalf("deleteTokenFile() error = %v", err)
	}

	if got := readTokenFile(); got != "" {
		t.Errorf("readTokenFile() after delete = %q, want empty", got)
	}

	if err := deleteTokenFile(); err == nil {
		t.Error("deleteTokenFile() on missing file should error")
	}
}

func TestTokenFilePath(t *testing.T) {
	cfgRoot := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgRoot)

	path := tokenFilePath()
	if path == "" {
		t.Skip("could not determine config directory")
	}

	if !filepath.IsAbs(path) {
		t.Errorf("tokenFilePath() = %q, want absolute path", path)
	}

	if !strings.HasSuffix(path, filepath.Join("vizdash", "token")) {
		t.Errorf("tokenFilePath() = %q, want vizdash/token suffix", path)
	}
}
