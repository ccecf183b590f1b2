package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the add-on's validated option set.
// Values come from the Home Assistant options file (or env when the file
// is absent). No business logic should depend on raw options.
type Config struct {
	// SIP account. All three are required; the add-on cannot register
	// without them.
	SIPServer string `json:"sip_server"`
	Extension string `json:"extension"`
	Password  string `json:"password"`

	// Port is the local SIP listening port handed to pjsua.
	Port int `json:"port"`

	// LogLevel accepts debug, info, warning, error.
	LogLevel string `json:"log_level"`

	// HTTPPort is where the control REST API listens.
	HTTPPort int `json:"http_port"`

	// AutoAnswer makes pjsua answer incoming calls with 200 OK.
	AutoAnswer bool `json:"auto_answer"`
}

// DefaultOptionsFile is where the Home Assistant supervisor mounts
// the add-on options.
const DefaultOptionsFile = "/data/options.json"

const (
	defaultSIPPort  = 5060
	defaultHTTPPort = 8099
	defaultLogLevel = "info"
)

// Load reads the options file when present, otherwise falls back to
// environment variables. The result is always validated.
func Load() (Config, error) {
	path := strings.TrimSpace(os.Getenv("OPTIONS_FILE"))
	if path == "" {
		path = DefaultOptionsFile
	}
	if _, err := os.Stat(path); err == nil {
		return LoadFile(path)
	}
	return LoadEnv()
}

// LoadFile parses a JSON options object. Absent keys keep their defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read options file: %w", err)
	}
	c := withDefaults()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse options file %s: %w", path, err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadEnv reads the same options from SIP_SERVER, EXTENSION, PASSWORD,
// PORT, LOG_LEVEL, HTTP_PORT and AUTO_ANSWER.
func LoadEnv() (Config, error) {
	c := withDefaults()
	var parseErrs []error

	c.SIPServer = strings.TrimSpace(os.Getenv("SIP_SERVER"))
	c.Extension = strings.TrimSpace(os.Getenv("EXTENSION"))
	c.Password = os.Getenv("PASSWORD")

	if v, err := optInt("PORT", defaultSIPPort); err != nil {
		parseErrs = append(parseErrs, err)
	} else {
		c.Port = v
	}
	if v, err := optInt("HTTP_PORT", defaultHTTPPort); err != nil {
		parseErrs = append(parseErrs, err)
	} else {
		c.HTTPPort = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("AUTO_ANSWER")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("AUTO_ANSWER must be a boolean, got %q", v))
		} else {
			c.AutoAnswer = b
		}
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func withDefaults() Config {
	return Config{
		Port:       defaultSIPPort,
		LogLevel:   defaultLogLevel,
		HTTPPort:   defaultHTTPPort,
		AutoAnswer: true,
	}
}

func (c *Config) normalize() {
	c.SIPServer = strings.TrimSpace(c.SIPServer)
	c.Extension = strings.TrimSpace(c.Extension)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warn" {
		c.LogLevel = "warning"
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Port == 0 {
		c.Port = defaultSIPPort
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = defaultHTTPPort
	}
}

// Validate reports every missing or invalid key, not just the first.
func (c Config) Validate() error {
	var errs []error

	if c.SIPServer == "" {
		errs = append(errs, errors.New("sip_server is required"))
	}
	if c.Extension == "" {
		errs = append(errs, errors.New("extension is required"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("password is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be a valid port, got %d", c.Port))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("http_port must be a valid port, got %d", c.HTTPPort))
	}
	if !isValidLogLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warning, error, got %q", c.LogLevel))
	}

	return joinErrors(errs)
}

// HTTPAddr is the listen address for the control API.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// AccountURI is the SIP identity pjsua registers as.
func (c Config) AccountURI() string {
	return fmt.Sprintf("sip:%s@%s", c.Extension, c.SIPServer)
}

func optInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func isValidLogLevel(v string) bool {
	switch v {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
