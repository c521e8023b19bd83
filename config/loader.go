package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is what the loader needs from the disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem is the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds the loader's filesystem and explicit file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the search for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search for .env.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ConfigFileEnv names the variable that points at the config file, e.g.
// USERAUTH_CONFIG_FILE for the userauth service.
func ConfigFileEnv(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_")) + "_CONFIG_FILE"
}

// locate picks the config and .env files. An explicit path wins, then the
// <SERVICE>_CONFIG_FILE variable for the config file, then the first file
// found in the search locations.
func (lc *LoaderConfig) locate(serviceName string) (configFile, envFile string) {
	configFile, envFile = lc.ConfigFile, lc.EnvFile
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv(serviceName))
	}
	if configFile == "" {
		configFile = lc.firstExisting(
			"./cmd/"+serviceName+"/config.yml",
			"../cmd/"+serviceName+"/config.yml",
			"../../cmd/"+serviceName+"/config.yml",
			"./config/config.yml",
			"./config.yml",
		)
	}
	if envFile == "" {
		envFile = lc.firstExisting(
			"./cmd/"+serviceName+"/.env",
			"../cmd/"+serviceName+"/.env",
			".env."+serviceName,
			"./.env",
			"../.env",
		)
	}
	return configFile, envFile
}

func (lc *LoaderConfig) firstExisting(paths ...string) string {
	if i := slices.IndexFunc(paths, lc.FileSystem.Exists); i >= 0 {
		return paths[i]
	}
	return ""
}

// LoadConfig fills cfg, a pointer to a struct with mapstructure tags.
//
// Later sources win: config.yml, then .env, then the process environment.
// Every key is bound to its upper snake case variable, so auth.jwt.secret
// is read from AUTH_JWT_SECRET. Missing files are not an error.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	configFile, envFile := lc.locate(serviceName)

	v := viper.New()
	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load .env file %s: %v\n", envFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range structKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// structKeys lists the dotted mapstructure key of every leaf field. Fields
// of squashed embedded structs are listed at the parent level; durations
// and other time types are leaves.
func structKeys(t reflect.Type, prefix string) []string {
	t = deref(t)
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		name, squash := mapstructureName(f)
		if !f.IsExported() || name == "-" {
			continue
		}
		ft := deref(f.Type)
		switch {
		case squash:
			keys = append(keys, structKeys(ft, prefix)...)
		case ft.Kind() == reflect.Struct && ft.PkgPath() != "time":
			keys = append(keys, structKeys(ft, join(prefix, name))...)
		default:
			keys = append(keys, join(prefix, name))
		}
	}
	return keys
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func mapstructureName(f reflect.StructField) (name string, squash bool) {
	name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	squash = slices.Contains(strings.Split(opts, ","), "squash")
	if name == "" && !squash {
		name = strings.ToLower(f.Name)
	}
	return name, squash
}
