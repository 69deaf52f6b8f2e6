// Package config loads the application environment and validates it with the
// schema engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/twoojoo/zschema/schema"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Variable names.
const (
	KeyAppEnv      = "APP_ENV"
	KeyDatabaseURL = "DATABASE_URL"
	KeyAppURL      = "APP_URL"
	KeyAPIURL      = "API_URL"
	KeyLogLevel    = "LOG_LEVEL"
)

// LogLevels are the accepted LOG_LEVEL values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// aliases are read when the primary variable is unset.
var aliases = map[string][]string{
	KeyAppEnv: {"NODE_ENV"},
	KeyAppURL: {"NEXT_PUBLIC_APP_URL"},
	KeyAPIURL: {"NEXT_PUBLIC_API_URL"},
}

// Schema validates the merged variables.
var Schema = schema.NewObject("Env",
	schema.Prop(KeyAppEnv, schema.Enum(EnvDevelopment, EnvProduction, EnvTest).Default(EnvDevelopment)),
	schema.Prop(KeyDatabaseURL, schema.String().URL().Describe("database connection URL")),
	schema.Prop(KeyAppURL, schema.String().URL().Optional()),
	schema.Prop(KeyAPIURL, schema.String().URL().Optional()),
	schema.Prop(KeyLogLevel, schema.Enum(LogLevels...).Default("info")),
)

// Config is the validated environment.
type Config struct {
	Env         string `json:"APP_ENV"`
	DatabaseURL string `json:"DATABASE_URL"`
	AppURL      string `json:"APP_URL,omitempty"`
	APIURL      string `json:"API_URL,omitempty"`
	LogLevel    string `json:"LOG_LEVEL"`
}

// fileConfig is the on-disk shape of a config file.
type fileConfig struct {
	AppEnv      string `toml:"app_env" yaml:"app_env"`
	DatabaseURL string `toml:"database_url" yaml:"database_url"`
	AppURL      string `toml:"app_url" yaml:"app_url"`
	APIURL      string `toml:"api_url" yaml:"api_url"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
}

func (f fileConfig) vars() map[string]string {
	return map[string]string{
		KeyAppEnv:      f.AppEnv,
		KeyDatabaseURL: f.DatabaseURL,
		KeyAppURL:      f.AppURL,
		KeyAPIURL:      f.APIURL,
		KeyLogLevel:    f.LogLevel,
	}
}

// Load reads the optional config file at path (TOML or YAML by extension),
// overlays the variables in environ ("KEY=value" pairs as returned by
// os.Environ) and validates the result. Environment values win over the
// file; empty values count as unset.
func Load(path string, environ []string) (*Config, error) {
	vars, err := merge(path, environ)
	if err != nil {
		return nil, err
	}
	return FromMap(vars)
}

// LogLevel resolves only LOG_LEVEL, with the same precedence as Load. It does
// not require the rest of the environment to be valid.
func LogLevel(path string, environ []string) (string, error) {
	vars, err := merge(path, environ)
	if err != nil {
		return "", err
	}
	input := map[string]any{}
	if v, ok := vars[KeyLogLevel]; ok {
		input[KeyLogLevel] = v
	}
	out, err := logLevelSchema.Parse(input)
	if err != nil {
		return "", fmt.Errorf("config: invalid environment: %w", err)
	}
	return out[KeyLogLevel].(string), nil
}

var logLevelSchema = Schema.Pick(KeyLogLevel)

func merge(path string, environ []string) (map[string]string, error) {
	vars := map[string]string{}
	if path != "" {
		fromFile, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			if v != "" {
				vars[k] = os.ExpandEnv(v)
			}
		}
	}

	env := parseEnviron(environ)
	for _, key := range Schema.Keys() {
		if v := lookup(env, key); v != "" {
			vars[key] = v
		}
	}
	return vars, nil
}

// FromEnv validates the process environment.
func FromEnv() (*Config, error) {
	return Load("", os.Environ())
}

// FromMap validates an already-merged variable set.
func FromMap(vars map[string]string) (*Config, error) {
	input := make(map[string]any, len(vars))
	for k, v := range vars {
		input[k] = v
	}
	cfg, err := schema.Decode[Config](Schema, input)
	if err != nil {
		return nil, fmt.Errorf("config: invalid environment: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	return fc.vars(), nil
}

func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

func lookup(env map[string]string, key string) string {
	if v := env[key]; v != "" {
		return v
	}
	for _, alt := range aliases[key] {
		if v := env[alt]; v != "" {
			return v
		}
	}
	return ""
}

// IsDevelopment reports whether the application runs in development.
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// IsTest reports whether the application runs under test.
func (c *Config) IsTest() bool { return c.Env == EnvTest }
