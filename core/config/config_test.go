package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Configuration){
		"bad-color":       func(c *Configuration) { c.Color = "sometimes" },
		"no-prompt":       func(c *Configuration) { c.Prompt = "" },
		"bad-limit":       func(c *Configuration) { c.HistoryLimit = -2 },
		"no-program-name": func(c *Configuration) { c.ProgramName = "" },
		"program-slash":   func(c *Configuration) { c.ProgramName = "bin/sh" },
	}

	for tn, mutate := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultHasNoFiles(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "", cfg.HistoryPath())
	fd, err := cfg.OpenEventLog()
	assert.NoError(t, err)
	assert.Nil(t, fd)
}
