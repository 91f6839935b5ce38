package mosaic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field values that cannot be caught by YAML decoding
func (c *Config) Validate() error {
	switch c.Render.Format {
	case "", "raster", "vector", "both":
	default:
		return fmt.Errorf("render.format must be raster, vector or both, got %q", c.Render.Format)
	}
	if c.Render.Scale < 0 {
		return fmt.Errorf("render.scale must not be negative")
	}
	if c.Render.Padding < 0 {
		return fmt.Errorf("render.padding must not be negative")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.MQTT.InputTopic != "" && c.MQTT.Broker == "" && os.Getenv("MQTT_BROKER") == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt.inputTopic is set")
	}
	if c.Motif != nil {
		if _, err := c.GetMotif(); err != nil {
			return fmt.Errorf("motif: %w", err)
		}
	}
	for _, hex := range []string{c.Render.FilledColor, c.Render.MotifColor} {
		if hex != "" {
			if _, err := parseHexColor(hex); err != nil {
				return fmt.Errorf("render color: %w", err)
			}
		}
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
