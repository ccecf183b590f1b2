package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_NamesEveryMissingKey(t *testing.T) {
	c := withDefaults()
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, key := range []string{"sip_server", "extension", "password"} {
		if !strings.Contains(err.Error(), key+" is required") {
			t.Fatalf("expected error to name %s, got: %v", key, err)
		}
	}
}

func TestValidate_MissingSingleKey(t *testing.T) {
	c := withDefaults()
	c.SIPServer = "sip.example.com"
	c.Extension = "1001"
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("expected error to name password, got: %v", err)
	}
	if strings.Contains(err.Error(), "sip_server") {
		t.Fatalf("did not expect sip_server in error: %v", err)
	}
}

func TestLoadFile_DefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	opts := `{"sip_server":"sip.example.com","extension":"1001","password":"secret"}`
	if err := os.WriteFile(path, []byte(opts), 0o600); err != nil {
		t.Fatalf("write options: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Port != 5060 {
		t.Fatalf("expected default sip port 5060, got %d", c.Port)
	}
	if c.HTTPPort != 8099 {
		t.Fatalf("expected default http port 8099, got %d", c.HTTPPort)
	}
	if c.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", c.LogLevel)
	}
	if !c.AutoAnswer {
		t.Fatalf("expected auto_answer to default to true")
	}
	if c.AccountURI() != "sip:1001@sip.example.com" {
		t.Fatalf("unexpected account uri %q", c.AccountURI())
	}
}

func TestLoadFile_OverridesAndNormalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	opts := `{"sip_server":" sip.example.com ","extension":"1001","password":"secret","port":5080,"log_level":"WARN","http_port":9000,"auto_answer":false}`
	if err := os.WriteFile(path, []byte(opts), 0o600); err != nil {
		t.Fatalf("write options: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.SIPServer != "sip.example.com" {
		t.Fatalf("expected trimmed server, got %q", c.SIPServer)
	}
	if c.Port != 5080 || c.HTTPPort != 9000 {
		t.Fatalf("unexpected ports: %d %d", c.Port, c.HTTPPort)
	}
	if c.LogLevel != "warning" {
		t.Fatalf("expected warn to normalize to warning, got %q", c.LogLevel)
	}
	if c.AutoAnswer {
		t.Fatalf("expected auto_answer false")
	}
}

func TestLoadFile_MissingKeyIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	opts := `{"sip_server":"sip.example.com","extension":"1001"}`
	if err := os.WriteFile(path, []byte(opts), 0o600); err != nil {
		t.Fatalf("write options: %v", err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatalf("expected error for missing password")
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("expected error to name password, got: %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SIP_SERVER", "sip.example.com")
	t.Setenv("EXTENSION", "1009")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("PORT", "5070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("AUTO_ANSWER", "")

	c, err := LoadEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.SIPServer != "sip.example.com" || c.Extension != "1009" {
		t.Fatalf("unexpected account: %q %q", c.SIPServer, c.Extension)
	}
	if c.Port != 5070 {
		t.Fatalf("expected port 5070, got %d", c.Port)
	}
	if c.HTTPPort != 8099 {
		t.Fatalf("expected default http port, got %d", c.HTTPPort)
	}
	if c.LogLevel != "debug" {
		t.Fatalf("expected debug, got %q", c.LogLevel)
	}
}

func TestLoadEnv_BadPort(t *testing.T) {
	t.Setenv("SIP_SERVER", "sip.example.com")
	t.Setenv("EXTENSION", "1009")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("PORT", "not-a-port")

	_, err := LoadEnv()
	if err == nil {
		t.Fatalf("expected error for bad PORT")
	}
	if !strings.Contains(err.Error(), "PORT") {
		t.Fatalf("expected error to name PORT, got: %v", err)
	}
}
