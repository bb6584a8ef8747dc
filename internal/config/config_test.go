package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("AZURE_DEVOPS_ORG_URL", "https://dev.azure.com/contoso/")
	t.Setenv("AZURE_DEVOPS_EXT_PAT", "")
	t.Setenv("AZURE_DEVOPS_PAT", "secret")
	t.Setenv("AZURE_DEVOPS_PROJECT", "Fabrikam")
	t.Setenv("WORKOPS_SETTINGS", "/tmp/workops.json")
	t.Setenv("WORKOPS_REVALIDATE_DELAY", "250ms")
	t.Setenv("WORKOPS_MAX_CONCURRENT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dev.azure.com/contoso", cfg.OrgURL)
	assert.Equal(t, "secret", cfg.PAT)
	assert.Equal(t, "Fabrikam", cfg.Project)
	assert.Equal(t, "/tmp/workops.json", cfg.SettingsPath)
	assert.Equal(t, 250*time.Millisecond, cfg.RevalidateDelay)
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "complete", cfg: Config{OrgURL: "https://x", PAT: "p"}},
		{name: "missing org", cfg: Config{PAT: "p"}, wantErr: true},
		{name: "missing token", cfg: Config{OrgURL: "https://x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	cfg := &Config{OrgURL: "https://a", Project: "A"}
	cfg.Override("", "B")
	assert.Equal(t, "https://a", cfg.OrgURL)
	assert.Equal(t, "B", cfg.Project)

	cfg.Override("https://b/", "")
	assert.Equal(t, "https://b", cfg.OrgURL)
	assert.Equal(t, "B", cfg.Project)
}
