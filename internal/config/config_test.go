// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package config

import (
	"strings"
	"testing"
)

func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	return cfg
}

func TestDefaultConfigIsComplete(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port == 0 {
		t.Error("expected default server port")
	}
	if cfg.Database.Path == "" {
		t.Error("expected default database path")
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("expected default auth mode jwt, got %q", cfg.Security.AuthMode)
	}
	if cfg.API.DefaultPageSize <= 0 || cfg.API.MaxPageSize < cfg.API.DefaultPageSize {
		t.Error("expected sane default page sizes")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid jwt config",
			mutate: func(c *Config) {},
		},
		{
			name: "auth mode none allowed",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Security.JWTSecret = ""
			},
		},
		{
			name:    "short jwt secret rejected",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name:    "unknown auth mode rejected",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "auth_mode",
		},
		{
			name:    "invalid port rejected",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "empty database path rejected",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name: "max page size below default rejected",
			mutate: func(c *Config) {
				c.API.DefaultPageSize = 50
				c.API.MaxPageSize = 10
			},
			wantErr: "max_page_size",
		},
		{
			name:    "zero login rate limit rejected",
			mutate:  func(c *Config) { c.Security.LoginRateLimit = 0 },
			wantErr: "login_rate_limit",
		},
		{
			name:    "non-positive login rate window rejected",
			mutate:  func(c *Config) { c.Security.LoginRateWindow = 0 },
			wantErr: "login_rate_window",
		},
		{
			name: "billing enabled requires base url",
			mutate: func(c *Config) {
				c.Billing.Enabled = true
				c.Billing.BaseURL = ""
			},
			wantErr: "billing.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"DATABASE_PATH", "database.path"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"AUTH_MODE", "security.auth_mode"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"BILLING_BASE_URL", "billing.base_url"},
		{"API_MAX_PAGE_SIZE", "api.max_page_size"},
		{"UNRELATED_VAR", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := validTestConfig()
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
	cfg.Server.Environment = "production"
	if cfg.IsDevelopment() {
		t.Error("production environment should not report development")
	}
}
