// Package config provides configuration for the promptfinder commands and
// loading of workflow and profile files.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client configures a form session run from the command line.
type Client struct {
	StorageURL          string        `validate:"required"`
	UserID              string        `validate:"max=255"`
	ProfileEnabled      bool
	ServerPresets       bool
	APIBase             string        `validate:"omitempty,url"`
	Nonce               string
	AutosaveInterval    time.Duration `validate:"gte=0"`
	CompletionHideDelay time.Duration `validate:"gte=0"`
	LogLevel            string        `validate:"omitempty,oneof=debug info warn error"`
}

// ServerActive reports whether presets go to the server: the feature flag
// is on and an API base is configured.
func (c Client) ServerActive() bool {
	return c.ServerPresets && strings.TrimSpace(c.APIBase) != ""
}

func (c Client) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}

	return nil
}

// API configures the preset API service.
type API struct {
	Port        int    `validate:"required,min=1,max=65535"`
	DatabaseURL string `validate:"required"`
	Nonce       string
	ServiceName string `validate:"required"`
	Tracing     bool
	LogLevel    string `validate:"omitempty,oneof=debug info warn error"`
}

func (c API) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid API configuration: %w", err)
	}

	return nil
}
