package main

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the simulation configuration, loadable from environment
// variables (CRM_ prefix), flags, or YAML config files.
type Config struct {
	Orders   int    `default:"8"       usage:"Number of orders to simulate"`
	UserID   string `default:""        usage:"Owning user ID for simulated orders (random when empty)" flag:"user-id"`
	Status   string `default:"pending" usage:"Status filter for the listing pass"`
	FailFind bool   `default:"false"   usage:"Inject a network failure into the listing pass" flag:"fail-find"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CRM",
		Files:     []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.Orders <= 0 {
		return nil, errors.New("orders must be positive")
	}

	return &cfg, nil
}
