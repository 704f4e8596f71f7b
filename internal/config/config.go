package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete badge configuration
type Config struct {
	I2S     I2SConfig     `yaml:"i2s"`
	Audio   AudioConfig   `yaml:"audio"`
	UI      UIConfig      `yaml:"ui"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// I2SConfig contains the I2S microphone bus configuration. Pin assignments
// and the bus id only apply to the target hardware; the host build logs them
// and configures the capture backend from the buffer size alone.
type I2SConfig struct {
	ClockPin      int `yaml:"clock_pin"`
	WordSelectPin int `yaml:"word_select_pin"`
	DataPin       int `yaml:"data_pin"`
	BusID         int `yaml:"bus_id"`
	BufferBytes   int `yaml:"buffer_bytes"` // internal peripheral buffer size
}

// AudioConfig contains recording parameters
type AudioConfig struct {
	SampleRate    int    `yaml:"sample_rate"`
	BitsPerSample int    `yaml:"bits_per_sample"`
	Channels      int    `yaml:"channels"`
	RecordSeconds int    `yaml:"record_seconds"`
	ShiftBits     int    `yaml:"shift_bits"`  // low-order bits discarded per sample
	OutputFile    string `yaml:"output_file"` // filename on the storage mount
	MountDir      string `yaml:"mount_dir"`   // storage mount point
}

// UIConfig contains state machine driver configuration
type UIConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // 0 means spin without pacing
	Simulator    bool          `yaml:"simulator"`
	InitialState string        `yaml:"initial_state"`
	ImageFile    string        `yaml:"image_file"` // shown by the image display state
}

// DebugConfig contains the optional debug HTTP server configuration
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs validation of the complete configuration
func (c *Config) Validate() error {
	if err := c.I2S.Validate(); err != nil {
		return fmt.Errorf("i2s config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui config: %w", err)
	}

	if err := c.Debug.Validate(); err != nil {
		return fmt.Errorf("debug config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates I2S bus configuration
func (i *I2SConfig) Validate() error {
	if i.ClockPin < 0 || i.WordSelectPin < 0 || i.DataPin < 0 {
		return fmt.Errorf("pin assignments cannot be negative, got sck=%d ws=%d sd=%d",
			i.ClockPin, i.WordSelectPin, i.DataPin)
	}

	if i.BusID < 0 {
		return fmt.Errorf("bus_id cannot be negative, got %d", i.BusID)
	}

	if i.BufferBytes < 1024 {
		return fmt.Errorf("buffer_bytes must be at least 1024, got %d", i.BufferBytes)
	}

	return nil
}

// Validate validates recording configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 || a.SampleRate > 48000 {
		return fmt.Errorf("sample_rate must be between 8000 and 48000 Hz, got %d", a.SampleRate)
	}

	if a.BitsPerSample != 16 && a.BitsPerSample != 32 {
		return fmt.Errorf("bits_per_sample must be 16 or 32, got %d", a.BitsPerSample)
	}

	if a.Channels != 1 && a.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", a.Channels)
	}

	if a.RecordSeconds < 1 {
		return fmt.Errorf("record_seconds must be at least 1, got %d", a.RecordSeconds)
	}

	if a.ShiftBits < 0 || a.ShiftBits >= a.BitsPerSample {
		return fmt.Errorf("shift_bits must be between 0 and %d, got %d", a.BitsPerSample-1, a.ShiftBits)
	}

	if a.OutputFile == "" {
		return fmt.Errorf("output_file cannot be empty")
	}

	if a.MountDir == "" {
		return fmt.Errorf("mount_dir cannot be empty")
	}

	return nil
}

// UnmarshalYAML parses tick_interval from a duration string such as "10ms"
func (u *UIConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TickInterval string `yaml:"tick_interval"`
		Simulator    bool   `yaml:"simulator"`
		InitialState string `yaml:"initial_state"`
		ImageFile    string `yaml:"image_file"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	u.Simulator = raw.Simulator
	u.InitialState = raw.InitialState
	u.ImageFile = raw.ImageFile

	if raw.TickInterval == "" {
		u.TickInterval = 0
		return nil
	}

	d, err := time.ParseDuration(raw.TickInterval)
	if err != nil {
		return fmt.Errorf("invalid tick_interval '%s': %w", raw.TickInterval, err)
	}
	u.TickInterval = d

	return nil
}

// Validate validates UI configuration
func (u *UIConfig) Validate() error {
	if u.TickInterval < 0 {
		return fmt.Errorf("tick_interval cannot be negative, got %s", u.TickInterval)
	}

	if u.InitialState == "" {
		return fmt.Errorf("initial_state cannot be empty")
	}

	return nil
}

// Validate validates debug server configuration
func (d *DebugConfig) Validate() error {
	if d.Enabled {
		if d.Port < 1 || d.Port > 65535 {
			return fmt.Errorf("debug port must be between 1 and 65535, got %d", d.Port)
		}

		if d.Address == "" {
			return fmt.Errorf("debug address cannot be empty when the debug server is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetRecordDuration returns the recording length as a time.Duration
func (a *AudioConfig) GetRecordDuration() time.Duration {
	return time.Duration(a.RecordSeconds) * time.Second
}

// TargetBytes returns the total number of sample bytes a full recording
// produces: seconds * rate * bytes-per-sample * channels.
func (a *AudioConfig) TargetBytes() int {
	return a.RecordSeconds * a.SampleRate * (a.BitsPerSample / 8) * a.Channels
}

// NumSamples returns the per-channel sample count of a full recording
func (a *AudioConfig) NumSamples() int {
	return a.RecordSeconds * a.SampleRate
}
