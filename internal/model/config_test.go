package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests loading and saving the application config.
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.T().Setenv("FAQCHAT_BACKEND_URL", "")
}

func (s *ConfigTestSuite) path() string {
	return filepath.Join(s.tempDir, "config.yaml")
}

func (s *ConfigTestSuite) TestLoadConfigMissingFileUsesDefaults() {
	cfg, err := LoadConfig(s.path(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "", cfg.BackendURL)
	assert.Equal(s.T(), DefaultBackendURL, cfg.BaseURL())
	assert.Equal(s.T(), 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(s.T(), 1400*time.Millisecond, cfg.Status.ResetDelay)
	assert.Equal(s.T(), 10, cfg.Suggestions.Limit)
	assert.Equal(s.T(), "info", cfg.Log.Level)
	assert.False(s.T(), cfg.History.Enabled)
}

func (s *ConfigTestSuite) TestLoadConfigWithFile() {
	content := `
backend_url: "https://faq.example.com/"
http:
  timeout: 5s
status:
  reset_delay: 200ms
suggestions:
  limit: 3
history:
  enabled: true
  path: "/tmp/h.db"
`
	require.NoError(s.T(), os.WriteFile(s.path(), []byte(content), 0o644))

	cfg, err := LoadConfig(s.path(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "https://faq.example.com", cfg.BaseURL())
	assert.Equal(s.T(), 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(s.T(), 200*time.Millisecond, cfg.Status.ResetDelay)
	assert.Equal(s.T(), 3, cfg.Suggestions.Limit)
	assert.True(s.T(), cfg.History.Enabled)
	assert.Equal(s.T(), "/tmp/h.db", cfg.History.Path)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	require.NoError(s.T(), os.WriteFile(
		s.path(), []byte("backend_url: http://file.example\n"), 0o644,
	))
	s.T().Setenv("FAQCHAT_BACKEND_URL", "  http://env.example/  ")

	cfg, err := LoadConfig(s.path(), nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "http://env.example", cfg.BaseURL())
}

func (s *ConfigTestSuite) TestChangedFlagOverridesEnv() {
	s.T().Setenv("FAQCHAT_BACKEND_URL", "http://env.example")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend-url", "", "")
	flags.String("log-level", "", "")
	flags.Bool("history", false, "")
	require.NoError(s.T(), flags.Parse([]string{
		"--backend-url", "http://flag.example", "--history",
	}))

	cfg, err := LoadConfig(s.path(), flags)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "http://flag.example", cfg.BaseURL())
	assert.True(s.T(), cfg.History.Enabled)
	assert.Equal(s.T(), "info", cfg.Log.Level)
}

func (s *ConfigTestSuite) TestInvalidYAMLFails() {
	require.NoError(s.T(), os.WriteFile(s.path(), []byte("backend_url: [\n"), 0o644))

	_, err := LoadConfig(s.path(), nil)
	assert.Error(s.T(), err)
}

func (s *ConfigTestSuite) TestSaveBackendURLKeepsOtherFileValues() {
	content := `
backend_url: http://old.example
status:
  reset_delay: 2s
suggestions:
  limit: 4
`
	require.NoError(s.T(), os.WriteFile(s.path(), []byte(content), 0o644))

	require.NoError(s.T(), SaveBackendURL(s.path(), " http://saved.example "))

	loaded, err := LoadConfig(s.path(), nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "http://saved.example", loaded.BaseURL())
	assert.Equal(s.T(), 2*time.Second, loaded.Status.ResetDelay)
	assert.Equal(s.T(), 4, loaded.Suggestions.Limit)
}

func (s *ConfigTestSuite) TestSaveBackendURLCreatesFile() {
	path := filepath.Join(s.tempDir, "nested", "config.yaml")
	require.NoError(s.T(), SaveBackendURL(path, "http://new.example"))

	loaded, err := LoadConfig(path, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "http://new.example", loaded.BaseURL())
}

func (s *ConfigTestSuite) TestSaveBackendURLDoesNotPersistOverrides() {
	s.T().Setenv("FAQCHAT_SUGGESTIONS_LIMIT", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend-url", "", "")
	flags.String("log-level", "", "")
	flags.Bool("history", false, "")
	require.NoError(s.T(), flags.Parse([]string{"--history", "--log-level", "debug"}))

	cfg, err := LoadConfig(s.path(), flags)
	require.NoError(s.T(), err)
	require.True(s.T(), cfg.History.Enabled)

	require.NoError(s.T(), SaveBackendURL(s.path(), "http://saved.example"))

	s.T().Setenv("FAQCHAT_SUGGESTIONS_LIMIT", "")
	plain, err := LoadConfig(s.path(), nil)
	require.NoError(s.T(), err)
	assert.False(s.T(), plain.History.Enabled)
	assert.Equal(s.T(), "info", plain.Log.Level)
	assert.Equal(s.T(), 10, plain.Suggestions.Limit)
	assert.Equal(s.T(), "http://saved.example", plain.BaseURL())
}

func TestBaseURLStripsSingleTrailingSlash(t *testing.T) {
	cfg := &AppConfig{BackendURL: "http://x.example//"}
	assert.Equal(t, "http://x.example/", cfg.BaseURL())
}
