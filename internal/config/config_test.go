package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Success with defaults",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"NEXUS_API_URL":          "https://store.example.com/api",
				"NEXUS_API_TIMEOUT":      "30",
				"NEXUS_BREAKER_FAILURES": "3",
				"NEXUS_BREAKER_COOLDOWN": "60",
				"NEXUS_TOKEN":            "token-123",
				"LOG_LEVEL":              "debug",
				"LOG_FORMAT":             "json",
			},
			expectError: false,
		},
		{
			name: "Error - base URL without a scheme",
			envVars: map[string]string{
				"NEXUS_API_URL": "store.example.com/api",
			},
			expectError: true,
			errorMsg:    "invalid API base URL",
		},
		{
			name: "Error - non-positive timeout",
			envVars: map[string]string{
				"NEXUS_API_TIMEOUT": "0",
			},
			expectError: true,
			errorMsg:    "timeout must be positive",
		},
		{
			name: "Error - breaker threshold below one",
			envVars: map[string]string{
				"NEXUS_BREAKER_FAILURES": "0",
			},
			expectError: true,
			errorMsg:    "breaker failure threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.API.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.API.BreakerCooldown)
	assert.Empty(t, cfg.Auth.Token)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestGetEnvAsInt_InvalidValue(t *testing.T) {
	t.Setenv("NEXUS_TEST_INT", "not-a-number")
	assert.Equal(t, 42, getEnvAsInt("NEXUS_TEST_INT", 42))
}

// clearEnv unsets every configuration variable so each case starts
// from the defaults regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"NEXUS_API_URL", "NEXUS_API_TIMEOUT",
		"NEXUS_BREAKER_FAILURES", "NEXUS_BREAKER_COOLDOWN",
		"NEXUS_TOKEN", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value) // restore on cleanup
			os.Unsetenv(key)
		}
	}
}
