package corvid

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the static, registration-time settings a Router is
// built from: the dispatcher's continue-after-response flag, the
// discovery scope, and the header a request's opaque id is read from
// (the adapter layer stamps one on when absent).
type Config struct {
	Scope                 string        `env:"CORVID_SCOPE" yaml:"scope" default:""`
	ContinueAfterResponse bool          `env:"CORVID_CONTINUE_AFTER_RESPONSE" yaml:"continueAfterResponse" default:"false"`
	RequestIDHeader       string        `env:"CORVID_REQUEST_ID_HEADER" yaml:"requestIdHeader" default:"X-Request-Id"`
	ShutdownTimeout       time.Duration `env:"CORVID_SHUTDOWN_TIMEOUT" yaml:"shutdownTimeout" default:"30s"`
}

// configAlias mirrors Config with ShutdownTimeout as a string, since
// yaml.v3 has no built-in time.Duration decoding (it would otherwise
// try to unmarshal "30s" into an int64 and fail).
type configAlias struct {
	Scope                 string `yaml:"scope"`
	ContinueAfterResponse bool   `yaml:"continueAfterResponse"`
	RequestIDHeader       string `yaml:"requestIdHeader"`
	ShutdownTimeout       string `yaml:"shutdownTimeout"`
}

// UnmarshalYAML implements yaml.Unmarshaler so ShutdownTimeout accepts
// a duration string ("30s") the way every other field accepts its
// native YAML scalar.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var alias configAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	c.Scope = alias.Scope
	c.ContinueAfterResponse = alias.ContinueAfterResponse
	c.RequestIDHeader = alias.RequestIDHeader
	if alias.ShutdownTimeout != "" {
		d, err := time.ParseDuration(alias.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parsing shutdownTimeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// LoadConfig loads a Config from environment variables, falling back to
// each field's default tag.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromYAML loads a Config (or any yaml-tagged struct) from a YAML
// file — the static configuration path for deployments that prefer a
// checked-in file over environment variables.
func LoadFromYAML(path string, cfg interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables into any
// struct, using the env tag to map variables and default for fallback
// values. Supported types: string, bool, int-family, uint-family,
// float-family, time.Duration, and string slices (comma-separated).
// Fields with no env tag are recursed into when they're themselves a
// struct, so a Config embedding another tagged struct still loads.
func LoadFromEnv(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("cfg must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("cfg must be a pointer to a struct")
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		envKey := field.Tag.Get("env")
		if envKey == "" {
			if fieldValue.Kind() == reflect.Struct {
				if err := LoadFromEnv(fieldValue.Addr().Interface()); err != nil {
					return err
				}
			}
			continue
		}

		value, ok := os.LookupEnv(envKey)
		if !ok || value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}
		if err := setField(fieldValue, value); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// fieldSetters dispatches by reflect.Kind rather than a hand-written
// switch, so a new scalar kind means one table entry instead of a new
// case threaded through the middle of a growing switch statement.
var fieldSetters = map[reflect.Kind]func(reflect.Value, string) error{
	reflect.String: func(f reflect.Value, v string) error {
		f.SetString(v)
		return nil
	},
	reflect.Bool: func(f reflect.Value, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		f.SetBool(b)
		return nil
	},
	reflect.Int:     setIntField,
	reflect.Int8:    setIntField,
	reflect.Int16:   setIntField,
	reflect.Int32:   setIntField,
	reflect.Int64:   setIntField,
	reflect.Uint:    setUintField,
	reflect.Uint8:   setUintField,
	reflect.Uint16:  setUintField,
	reflect.Uint32:  setUintField,
	reflect.Uint64:  setUintField,
	reflect.Float32: setFloatField,
	reflect.Float64: setFloatField,
	reflect.Slice:   setSliceField,
}

// setField sets a reflect.Value from a string. time.Duration is checked
// by concrete type ahead of the kind table since its reflect.Kind
// (Int64) is indistinguishable from a plain int64 field.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	setter, ok := fieldSetters[field.Kind()]
	if !ok {
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return setter(field, value)
}

func setIntField(f reflect.Value, v string) error {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	f.SetInt(i)
	return nil
}

func setUintField(f reflect.Value, v string) error {
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return err
	}
	f.SetUint(u)
	return nil
}

func setFloatField(f reflect.Value, v string) error {
	fl, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	f.SetFloat(fl)
	return nil
}

func setSliceField(f reflect.Value, v string) error {
	if f.Type().Elem().Kind() != reflect.String {
		return fmt.Errorf("unsupported slice element type: %s", f.Type().Elem().Kind())
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	f.Set(reflect.ValueOf(parts))
	return nil
}
