package config

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestDecodeExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "goalpost")
	s := sample{Port: 1}
	if err := Decode(strings.NewReader("name: ${SAMPLE_NAME}\n"), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "goalpost" || s.Port != 1 {
		t.Errorf("sample = %+v", s)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	s := sample{Port: 1}
	if err := Decode(strings.NewReader("nmae: typo\n"), &s); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestDecodeValidates(t *testing.T) {
	var s sample
	err := Decode(strings.NewReader("name: x\n"), &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestDecodeEmptyKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	if err := Decode(strings.NewReader(""), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var s sample
	if err := Load("/nonexistent/config.yaml", &s); err == nil {
		t.Error("expected error for missing file")
	}
}
