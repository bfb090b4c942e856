package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

func TestParseTokenArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    tokenOptions
		wantErr string
	}{
		{
			name: "defaults",
			args: []string{"-subject", "ops@example.com"},
			want: tokenOptions{subject: "ops@example.com", role: models.RoleOperator, ttl: 12 * time.Hour},
		},
		{
			name: "admin with ttl",
			args: []string{"-subject", "lead", "-role", "admin", "-ttl", "30m"},
			want: tokenOptions{subject: "lead", role: models.RoleAdmin, ttl: 30 * time.Minute},
		},
		{name: "missing subject", args: nil, wantErr: "-subject"},
		{name: "unknown role", args: []string{"-subject", "x", "-role", "customer"}, wantErr: "-role"},
		{name: "negative ttl", args: []string{"-subject", "x", "-ttl", "-1h"}, wantErr: "-ttl"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTokenArgs(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMintToken(t *testing.T) {
	priv, pub, err := config.GenerateRSAKeyPair()
	require.NoError(t, err)
	cfg := &config.Config{JWT: config.JWTConfig{PrivateKey: priv, PublicKey: pub, Issuer: "analyzer-dashboard"}}

	var out bytes.Buffer
	require.NoError(t, mintToken(cfg, []string{"-subject", "ops@example.com", "-role", "admin"}, &out))

	token := strings.SplitN(out.String(), "\n", 2)[0]
	claims, err := services.NewTokenService(&cfg.JWT).ValidateOperatorToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestMintTokenWithoutPrivateKey(t *testing.T) {
	_, pub, err := config.GenerateRSAKeyPair()
	require.NoError(t, err)
	cfg := &config.Config{JWT: config.JWTConfig{PublicKey: pub, Issuer: "analyzer-dashboard"}}

	err = mintToken(cfg, []string{"-subject", "ops"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, services.ErrSigningDisabled)
}
