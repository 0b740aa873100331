package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigs(t *testing.T) {
	t.Run("Is-a defaults", func(t *testing.T) {
		config := DefaultIsAConfig()

		assert.Equal(t, "isa", config.Name)
		assert.Equal(t, "imodel", config.ModelName)
		assert.Equal(t, 20, config.Window, "Default is-a window should be 20")
		assert.Equal(t, 0.5, config.AcceptThreshold)
		assert.NoError(t, config.Validate())
	})

	t.Run("Subtypes use their own windows", func(t *testing.T) {
		assert.Equal(t, 500, DefaultProperNounConfig().Window)
		assert.Equal(t, 30, DefaultSingularPronounConfig().Window)
		assert.NoError(t, DefaultProperNounConfig().Validate())
		assert.NoError(t, DefaultSingularPronounConfig().Validate())
	})
}

func TestResolverConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ResolverConfig)
	}{
		{"Empty name", func(c *ResolverConfig) { c.Name = "" }},
		{"Empty model name", func(c *ResolverConfig) { c.ModelName = "" }},
		{"Zero window", func(c *ResolverConfig) { c.Window = 0 }},
		{"Accept threshold above one", func(c *ResolverConfig) { c.AcceptThreshold = 1.5 }},
		{"Negative non-referential threshold", func(c *ResolverConfig) { c.NonReferentialThreshold = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultIsAConfig()
			tt.modify(&config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}
