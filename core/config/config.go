package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs
	// configurationDir is empty when running on the built-in defaults.
	configurationDir string

	Prompt        string `json:"prompt" validate:"required"`
	HeredocPrompt string `json:"heredoc_prompt"`

	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit" validate:"gte=-1"`

	Color string `json:"color" validate:"oneof=always auto never"`

	HeredocDir string `json:"heredoc_dir"`
	EventLog   string `json:"event_log"`

	ProgramName string `json:"program_name" validate:"required,excludesall=/"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir returns the configuration directory or the empty string if the
// configuration wasn't loaded from disk.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath returns the path readline should persist history to, or the
// empty string if history isn't persisted.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

func (c *Configuration) resolve(name string) string {
	switch {
	case name == "":
		return ""
	case filepath.IsAbs(name):
		return name
	case c.configurationDir == "":
		return ""
	default:
		return filepath.Join(c.configurationDir, name)
	}
}

// OpenEventLog opens the event log in an append only state. It returns nil
// if event logging is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" || c.fs() == nil {
		return nil, nil
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	if c.EventLog == "" || c.fs() == nil {
		return nil, os.ErrNotExist
	}
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration, not backed by any directory.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
