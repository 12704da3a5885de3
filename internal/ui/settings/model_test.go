package settings

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/faqchat/internal/credential"
	"github.com/nhle/faqchat/internal/model"
)

func TestValidateBackendURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"   ", false},
		{"http://localhost:3000", false},
		{"https://faq.example.com/", false},
		{"ftp://faq.example.com", true},
		{"faq.example.com", true},
		{"http://", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateBackendURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveWritesConfigAndToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	stored := map[string]string{}

	m := New(path, 80, 24)
	m.setToken = func(key, value string) error {
		stored[key] = value
		return nil
	}
	m.Open(model.AppConfig{History: model.HistoryConfig{Enabled: true}}, "")
	m.values.backendURL = " https://faq.example.com "
	m.values.token = "secret"

	msg := m.save()()
	saved, ok := msg.(SavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	assert.Equal(t, "secret", stored[credential.BackendTokenKey])

	cfg, err := model.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://faq.example.com", cfg.BaseURL())
	assert.False(t, cfg.History.Enabled, "only the backend URL is written")
}

func TestSaveReportsTokenError(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "config.yaml"), 80, 24)
	m.setToken = func(string, string) error { return errors.New("locked") }
	m.Open(model.AppConfig{}, "")

	saved := m.save()().(SavedMsg)
	assert.ErrorContains(t, saved.Err, "locked")
}

func TestEscClosesForm(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "config.yaml"), 80, 24)
	m.Open(model.AppConfig{}, "")
	require.True(t, m.Active())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ClosedMsg{}, cmd())
	assert.False(t, m.Active())
}
