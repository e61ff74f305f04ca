package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	// t.Setenv registers the restore; envconfig only falls back to
	// defaults when the variable is absent, so unset after.
	for _, key := range []string{"PORT", "APP_ENV", "SESSION_SECRET", "GOOGLE_CALLBACK_URL", "ALLOW_ORIGINS", "FRONTEND_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	req.NoError(err)

	req.Equal("3000", cfg.Port)
	req.Equal("development", cfg.Environment)
	req.Equal("your-secret-key", cfg.SessionSecret)
	req.Equal("/auth/google/callback", cfg.GoogleCallbackURL)
	req.Equal("http://localhost:3000", cfg.AllowOrigins)
	req.Empty(cfg.FrontendURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_CALLBACK_URL", "https://chat.example.com/auth/google/callback")
	t.Setenv("FRONTEND_URL", "https://chat.example.com")

	cfg, err := Load()
	req.NoError(err)

	req.Equal("8080", cfg.Port)
	req.Equal("production", cfg.Environment)
	req.Equal("s3cret", cfg.SessionSecret)
	req.Equal("client-id", cfg.GoogleClientID)
	req.Equal("client-secret", cfg.GoogleClientSecret)
	req.Equal("https://chat.example.com/auth/google/callback", cfg.GoogleCallbackURL)
	req.Equal("https://chat.example.com", cfg.FrontendURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "development with built-in secret",
			cfg:     Config{Environment: "development", SessionSecret: "your-secret-key"},
			wantErr: false,
		},
		{
			name:    "production with real secret",
			cfg:     Config{Environment: "production", SessionSecret: "s3cret"},
			wantErr: false,
		},
		{
			name:    "production with built-in secret",
			cfg:     Config{Environment: "production", SessionSecret: "your-secret-key"},
			wantErr: true,
		},
		{
			name:    "production with empty secret",
			cfg:     Config{Environment: "production", SessionSecret: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
