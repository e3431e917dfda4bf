// Package config loads the media-encoder YAML configuration and merges
// command-line overrides on top of it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/media-encoder/internal/gpio"
	"github.com/sweeney/media-encoder/internal/logic"
	"github.com/sweeney/media-encoder/internal/serial"
)

// Config is the top-level YAML configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Encoder EncoderConfig `yaml:"encoder"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	Keys    KeysConfig    `yaml:"keys"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
}

type SerialConfig struct {
	Port          string `yaml:"port"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms"`
}

type EncoderConfig struct {
	Reverse bool `yaml:"reverse"`
	// Seconds, fractional.
	ClickTimeout float64 `yaml:"click_timeout"`
}

// GPIOConfig selects the GPIO line source when A is a valid offset.
type GPIOConfig struct {
	Chip   string `yaml:"chip"`
	A      int    `yaml:"a"`
	B      int    `yaml:"b"`
	Button int    `yaml:"button"`
	PollMS int    `yaml:"poll_ms"`
}

type KeysConfig struct {
	DryRun bool `yaml:"dry_run"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultClientID is the MQTT client ID used when none is configured.
const DefaultClientID = "media-encoder"

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Serial: SerialConfig{
			Port:          serial.DefaultPort,
			Baud:          serial.DefaultBaud,
			ReadTimeoutMS: int(serial.DefaultReadTimeout / time.Millisecond),
		},
		Encoder: EncoderConfig{
			ClickTimeout: logic.DefaultClickTimeout.Seconds(),
		},
		GPIO: GPIOConfig{
			Chip:   gpio.DefaultChip,
			A:      -1,
			B:      -1,
			Button: -1,
			PollMS: int(gpio.DefaultPollInterval / time.Millisecond),
		},
		MQTT: MQTTConfig{
			ClientID: DefaultClientID,
		},
	}
}

// LoadFile reads and parses a YAML config file on top of the defaults.
// Unknown fields and trailing documents are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults.
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document.
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// Overrides holds values from flags the user set explicitly.
// A nil pointer leaves the loaded value alone; a non-nil one is applied even
// when it is the zero value.
type Overrides struct {
	Port         *string
	Baud         *int
	ReadTimeout  *time.Duration
	Reverse      *bool
	ClickTimeout *float64
	DryRun       *bool
	Broker       *string
	HTTPAddr     *string
	GPIOChip     *string
	GPIOA        *int
	GPIOB        *int
	GPIOButton   *int
}

// Apply merges the overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Port != nil {
		cfg.Serial.Port = *o.Port
	}
	if o.Baud != nil {
		cfg.Serial.Baud = *o.Baud
	}
	if o.ReadTimeout != nil {
		cfg.Serial.ReadTimeoutMS = int(*o.ReadTimeout / time.Millisecond)
	}
	if o.Reverse != nil {
		cfg.Encoder.Reverse = *o.Reverse
	}
	if o.ClickTimeout != nil {
		cfg.Encoder.ClickTimeout = *o.ClickTimeout
	}
	if o.DryRun != nil {
		cfg.Keys.DryRun = *o.DryRun
	}
	if o.Broker != nil {
		cfg.MQTT.Broker = *o.Broker
	}
	if o.HTTPAddr != nil {
		cfg.HTTP.Addr = *o.HTTPAddr
	}
	if o.GPIOChip != nil {
		cfg.GPIO.Chip = *o.GPIOChip
	}
	if o.GPIOA != nil {
		cfg.GPIO.A = *o.GPIOA
	}
	if o.GPIOB != nil {
		cfg.GPIO.B = *o.GPIOB
	}
	if o.GPIOButton != nil {
		cfg.GPIO.Button = *o.GPIOButton
	}
}

// Validate checks config invariants. Call it after defaults, file and
// overrides are applied.
func (c *Config) Validate() error {
	if c.GPIOEnabled() {
		if c.GPIO.Chip == "" {
			return errors.New("gpio.chip must not be empty")
		}
		if c.GPIO.B < 0 {
			return errors.New("gpio.b must be set when gpio.a is set")
		}
		if c.GPIO.A == c.GPIO.B || c.GPIO.A == c.GPIO.Button || c.GPIO.B == c.GPIO.Button {
			return errors.New("gpio.a, gpio.b and gpio.button must be distinct lines")
		}
		if c.GPIO.PollMS <= 0 {
			return errors.New("gpio.poll_ms must be > 0")
		}
	} else {
		if c.Serial.Port == "" {
			return errors.New("serial.port must not be empty")
		}
		if c.Serial.Baud <= 0 {
			return errors.New("serial.baud must be > 0")
		}
		if c.Serial.ReadTimeoutMS <= 0 {
			return errors.New("serial.read_timeout_ms must be > 0")
		}
	}

	ct := c.Encoder.ClickTimeout
	if math.IsNaN(ct) || math.IsInf(ct, 0) || ct < 0 {
		return errors.New("encoder.click_timeout must be a non-negative number of seconds")
	}

	if c.MQTT.Broker != "" && c.MQTT.ClientID == "" {
		return errors.New("mqtt.client_id must not be empty when mqtt.broker is set")
	}

	return nil
}

// GPIOEnabled reports whether the GPIO line source replaces the serial port.
func (c *Config) GPIOEnabled() bool {
	return c.GPIO.A >= 0
}

// Pins returns the configured GPIO lines.
func (c *Config) Pins() gpio.Pins {
	return gpio.Pins{Chip: c.GPIO.Chip, A: c.GPIO.A, B: c.GPIO.B, Button: c.GPIO.Button}
}

// ReadTimeout returns the serial read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Serial.ReadTimeoutMS) * time.Millisecond
}

// PollInterval returns the GPIO sampling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.GPIO.PollMS) * time.Millisecond
}

// Interpreter converts the encoder section into the interpreter config.
func (c *Config) Interpreter() logic.Config {
	return logic.Config{
		Reverse:      c.Encoder.Reverse,
		ClickTimeout: time.Duration(c.Encoder.ClickTimeout * float64(time.Second)),
	}
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
