package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ENV", "LOG_LEVEL", "PORT", "DATABASE_URL", "GEMINI_API_KEY", "GEMINI_MODEL",
	"GEMINI_TEMPERATURE", "GEMINI_MAX_RETRIES", "STORAGE_TYPE", "STORAGE_LOCAL_PATH",
	"AWS_S3_BUCKET", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	"RETRIEVAL_LEXICON_PATH", "RETRIEVAL_EXAMPLES", "MAX_TEXT_CHARS", "MAX_UPLOAD_BYTES",
}

// clearEnv blanks every key the loader reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.InDelta(t, 0.3, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, 3, cfg.Gemini.MaxRetries)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "./storage/files", cfg.Storage.LocalPath)
	assert.Equal(t, 3, cfg.Retrieval.Examples)
	assert.Equal(t, 50000, cfg.Limits.MaxTextChars)
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxUploadBytes)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_TEMPERATURE", "0.1")
	t.Setenv("RETRIEVAL_EXAMPLES", "5")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "plainlaw-uploads")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.InDelta(t, 0.1, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, 5, cfg.Retrieval.Examples)
	assert.Equal(t, int64(2048), cfg.Limits.MaxUploadBytes)
	assert.Equal(t, "plainlaw-uploads", cfg.Storage.S3Bucket)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nGEMINI_MODEL=gemini-test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("GEMINI_MODEL")
	})
	// godotenv never overrides variables that are already set, even to "".
	os.Unsetenv("PORT")
	os.Unsetenv("GEMINI_MODEL")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"PORT": "http"}, "PORT must be between"},
		{"port out of range", map[string]string{"PORT": "70000"}, "PORT must be between"},
		{"s3 without bucket", map[string]string{"STORAGE_TYPE": "s3"}, "AWS_S3_BUCKET"},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "ftp"}, "unknown storage type"},
		{"non numeric", map[string]string{"MAX_TEXT_CHARS": "many"}, "MAX_TEXT_CHARS must be an integer"},
		{"bad temperature", map[string]string{"GEMINI_TEMPERATURE": "warm"}, "GEMINI_TEMPERATURE must be a number"},
		{"too many examples", map[string]string{"RETRIEVAL_EXAMPLES": "11"}, "at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
