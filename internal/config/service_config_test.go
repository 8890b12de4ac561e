package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServiceConfig implements ServiceConfig for testing ApplyServiceConfigs
type mockServiceConfig struct {
	calls       []string
	configDir   string
	validateErr error
}

func (m *mockServiceConfig) ApplyDefaults()     { m.calls = append(m.calls, "defaults") }
func (m *mockServiceConfig) ApplyEnvOverrides() { m.calls = append(m.calls, "env") }

func (m *mockServiceConfig) ResolvePaths(configDir string) {
	m.calls = append(m.calls, "paths")
	m.configDir = configDir
}

func (m *mockServiceConfig) Validate() error {
	m.calls = append(m.calls, "validate")
	return m.validateErr
}

func TestApplyServiceConfigs_CallOrder(t *testing.T) {
	a, b := &mockServiceConfig{}, &mockServiceConfig{}

	err := ApplyServiceConfigs("config", a, b)

	assert.NoError(t, err)
	for _, m := range []*mockServiceConfig{a, b} {
		assert.Equal(t, []string{"defaults", "env", "paths", "validate"}, m.calls)
		assert.Equal(t, "config", m.configDir)
	}
}

func TestApplyServiceConfigs_StopsAtValidationError(t *testing.T) {
	failing := &mockServiceConfig{validateErr: errors.New("bad")}
	after := &mockServiceConfig{}

	err := ApplyServiceConfigs("config", failing, after)

	assert.EqualError(t, err, "bad")
	assert.Empty(t, after.calls)
}

func TestApplyServiceConfigs_EmptyList(t *testing.T) {
	assert.NoError(t, ApplyServiceConfigs("config"))
}
