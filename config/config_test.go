package config

import (
	"reflect"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := GetDefaultOptions()

	t.Logf(`Config
		Version: %s
		Host: %s
		Port: %d
		DSN: %s
		LogLevel: %s
		Data: %s
		`, opts.Version, opts.Host, opts.Port, opts.DSN, opts.LogLevel, opts.Data)

	if opts.Version != defaultVersion {
		t.Errorf("Version not set")
	}
	if opts.SessionHours != defaultSessionHours {
		t.Errorf("SessionHours not set")
	}
	if opts.PlaceholderCover != defaultPlaceholderCover {
		t.Errorf("PlaceholderCover not set")
	}
}

func TestLoadConfigFile(t *testing.T) {
	GetDefaultOptions()
	opts, err := ParseFile("config_test.toml")
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}
	t.Logf(`Config
		Version: %s
		Host: %s
		Port: %d
		DSN: %s
		LogLevel: %s
		LogFile: %s
		`, opts.Version, opts.Host, opts.Port, opts.DSN, opts.LogLevel, opts.LogFile)
	if opts.Version != "1.0.0" {
		t.Errorf("Version not set")
	}
	if opts.Host != "127.0.0.1" {
		t.Errorf("Host not set")
	}
	if opts.LogFile != "test.log" {
		t.Errorf("LogFile not set")
	}
	if opts.Port != 2333 {
		t.Errorf("Port not set")
	}
	if opts.LogLevel != "DEBUG" {
		t.Errorf("LogLevel not set")
	}
	if opts.CatalogFile != "books.csv" {
		t.Errorf("CatalogFile not set")
	}
	if opts.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret not set")
	}
	if opts.SessionHours != 12 {
		t.Errorf("SessionHours not set")
	}
	// Options absent from the file keep their defaults.
	if opts.PlaceholderCover != defaultPlaceholderCover {
		t.Errorf("PlaceholderCover lost its default")
	}
}

func TestCORSOrigins(t *testing.T) {
	opts := &Options{CORSAllowedOrigins: "http://localhost:3000, https://bookbid.example.org"}
	got := opts.CORSOrigins()
	want := []string{"http://localhost:3000", "https://bookbid.example.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CORSOrigins() = %v, want %v", got, want)
	}

	opts = &Options{CORSAllowedOrigins: ""}
	if got := opts.CORSOrigins(); len(got) != 0 {
		t.Errorf("CORSOrigins() = %v, want empty", got)
	}
}
