package mosaic

// Config represents the full configuration file
type Config struct {
	Input  string       `yaml:"input,omitempty" json:"input,omitempty"` // Puzzle file path or http(s) URL
	Motif  *MotifConfig `yaml:"motif,omitempty" json:"motif,omitempty"` // Optional custom motif; default is the sea monster
	Render RenderConfig `yaml:"render,omitempty" json:"render,omitempty"`
	MQTT   MQTTConfig   `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
	HTTP   HTTPConfig   `yaml:"http,omitempty" json:"http,omitempty"`
}

// MotifConfig describes a custom motif as text rows, top row first
type MotifConfig struct {
	Name string   `yaml:"name" json:"name"`
	Rows []string `yaml:"rows" json:"rows"`
}

// RenderConfig controls PNG/SVG output
type RenderConfig struct {
	Scale       int    `yaml:"scale,omitempty" json:"scale,omitempty"`             // Output pixels per picture pixel (default 8)
	Padding     int    `yaml:"padding,omitempty" json:"padding,omitempty"`         // Border around the picture in output pixels (default 16)
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`           // "raster", "vector" or "both"
	FilledColor string `yaml:"filledColor,omitempty" json:"filledColor,omitempty"` // Hex color for filled pixels
	MotifColor  string `yaml:"motifColor,omitempty" json:"motifColor,omitempty"`   // Hex color for motif pixels
	TileGrid    *bool  `yaml:"tileGrid,omitempty" json:"tileGrid,omitempty"`       // Draw tile boundaries in vector output (default true)
}

// ShowTileGrid reports whether tile boundaries are drawn. Unset means yes.
func (rc RenderConfig) ShowTileGrid() bool {
	return rc.TileGrid == nil || *rc.TileGrid
}

// MQTTConfig holds MQTT connection settings
type MQTTConfig struct {
	Broker        string `yaml:"broker,omitempty" json:"broker,omitempty"`
	PublishPrefix string `yaml:"publishPrefix,omitempty" json:"publishPrefix,omitempty"`
	ClientID      string `yaml:"clientId,omitempty" json:"clientId,omitempty"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
	InputTopic    string `yaml:"inputTopic,omitempty" json:"inputTopic,omitempty"` // Topic carrying raw puzzle input to solve
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	Port int `yaml:"port,omitempty" json:"port,omitempty"`
}

const (
	DefaultScale         = 8
	DefaultPadding       = 16
	DefaultPublishPrefix = "mosaic"
	DefaultHTTPPort      = 8080
)

// RenderScale returns the configured scale or the default
func (rc RenderConfig) RenderScale() int {
	if rc.Scale > 0 {
		return rc.Scale
	}
	return DefaultScale
}

// RenderPadding returns the configured padding or the default
func (rc RenderConfig) RenderPadding() int {
	if rc.Padding > 0 {
		return rc.Padding
	}
	return DefaultPadding
}

// GetMotif returns the configured motif, falling back to SeaMonster
func (c *Config) GetMotif() (Motif, error) {
	if c == nil || c.Motif == nil || len(c.Motif.Rows) == 0 {
		return SeaMonster, nil
	}
	name := c.Motif.Name
	if name == "" {
		name = "custom"
	}
	return ParseMotif(name, c.Motif.Rows)
}

// GetPublishPrefix returns the MQTT topic prefix or the default
func (c *Config) GetPublishPrefix() string {
	if c != nil && c.MQTT.PublishPrefix != "" {
		return c.MQTT.PublishPrefix
	}
	return DefaultPublishPrefix
}

// GetHTTPPort returns the HTTP port or the default
func (c *Config) GetHTTPPort() int {
	if c != nil && c.HTTP.Port > 0 {
		return c.HTTP.Port
	}
	return DefaultHTTPPort
}
