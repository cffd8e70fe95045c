// Package config loads the service configuration from environment variables.
//
// It reads variables (optionally from a `.env` file), maps them into
// structured Go types, validates that required values are present and builds
// the process-wide parameter schema from the declared allow-list.
//
// Keys use the PARAMS_ prefix and "." for nesting:
//
//	PARAMS_PRIMARY.ENV=local
//	PARAMS_SERVER.PORT=8080
//	PARAMS_PARAMS.id=uint16
//	PARAMS_PARAMS.name=string:required,alphanum,max=32
//
// Parameter names keep their case. A "required" tag in a declaration marks
// the parameter as required instead of being passed to the validator.
package config

import (
	"maps"
	"sort"
	"strings"

	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/go-playground/validator/v10"
	// Loads a `.env` file into the process environment, if one exists,
	// before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is stripped from every variable koanf reads.
	EnvPrefix = "PARAMS_"

	// ServiceName tags logs and New Relic data.
	ServiceName = "paramsd"
)

// DefaultParams is the allow-list used when no PARAMS_PARAMS.* variable is set.
var DefaultParams = map[string]string{
	"id": "uint16",
}

// Config is the root configuration object.
//
// Observability is a pointer because it is optional; defaults are injected
// when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Params        map[string]string    `koanf:"params"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=0"`

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. When
	// empty, the client IP is the TCP peer address.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,cidr"`
}

// paramsKey is the config section holding parameter declarations.
const paramsKey = "params."

// envKey maps a variable name to a config key. Keys are lowercased, except
// parameter names, which are matched case-sensitively against the query:
//
//	PARAMS_SERVER.PORT    -> server.port
//	PARAMS_PARAMS.userId  -> params.userId
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if len(key) > len(paramsKey) && strings.EqualFold(key[:len(paramsKey)], paramsKey) {
		return paramsKey + key[len(paramsKey):]
	}
	return strings.ToLower(key)
}

// LoadConfig reads the environment, validates it and applies defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if len(mainConfig.Params) == 0 {
		mainConfig.Params = maps.Clone(DefaultParams)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so logs
	// and traces line up.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	// Fail at startup, not on the first request.
	if _, err := mainConfig.Schema(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Schema builds the parameter allow-list from the declarations in Params.
//
// Fields are declared in name order so the result does not depend on map
// iteration.
func (c *Config) Schema() (*params.Schema, error) {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]params.Field, 0, len(names))
	for _, name := range names {
		field, err := params.ParseField(name, c.Params[name])
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q", name)
		}
		fields = append(fields, field)
	}

	schema, err := params.NewSchema(fields...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid parameter schema")
	}
	return schema, nil
}
