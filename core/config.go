package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Schedule sources
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourceDatabase = "database"
)

type (
	serverConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	databaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		RollbarToken string

		// school
		Timezone              string
		DefaultAssemblyLetter string
		ClockFormat           string // "12" | "24"
		ScheduleSource        string // builtin | file | database
		SchedulesFile         string

		Server   serverConfig
		Database databaseConfig
	}
)

func (db databaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

// Location loads the school's time zone, all schedule times are wall-clock times in it.
func (conf *Config) Location() (*time.Location, error) {
	if conf.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %q", conf.Timezone)
	}
	return loc, nil
}

// NewConfig reads the configuration from the environment (and config/.env.<env> if it exists).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Bell+")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("timezone", "America/Los_Angeles")
	v.SetDefault("defaultAssemblyLetter", "B")
	v.SetDefault("clockFormat", "12")
	v.SetDefault("scheduleSource", SourceBuiltin)
	v.SetDefault("schedulesFile", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverReadTimeout", 5*time.Second)
	v.SetDefault("serverWriteTimeout", time.Duration(0)) // streaming responses
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseName", "bellplus")
	v.SetDefault("databaseUser", "bellplus")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:                   env,
		Build:                 v.GetString("build"),
		AppName:               v.GetString("appName"),
		Debug:                 v.GetBool("debug"),
		TestMode:              v.GetBool("testMode"),
		RollbarToken:          v.GetString("rollbarToken"),
		Timezone:              v.GetString("timezone"),
		DefaultAssemblyLetter: strings.ToUpper(v.GetString("defaultAssemblyLetter")),
		ClockFormat:           v.GetString("clockFormat"),
		ScheduleSource:        strings.ToLower(v.GetString("scheduleSource")),
		SchedulesFile:         v.GetString("schedulesFile"),
		Server: serverConfig{
			Host:            v.GetString("serverHost"),
			Address:         v.GetString("serverAddress"),
			DebugHost:       v.GetString("serverDebugHost"),
			ReadTimeout:     v.GetDuration("serverReadTimeout"),
			WriteTimeout:    v.GetDuration("serverWriteTimeout"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Database: databaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetInt("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
	}
}

// Check reports configuration values that cannot work together.
func (conf *Config) Check() error {
	switch conf.ScheduleSource {
	case SourceBuiltin, SourceDatabase:
	case SourceFile:
		if conf.SchedulesFile == "" {
			return NewValidationError(errors.New("schedulesFile is required when scheduleSource is file"))
		}
	default:
		return NewValidationError(fmt.Errorf("unknown scheduleSource %q", conf.ScheduleSource))
	}
	if conf.ClockFormat != "12" && conf.ClockFormat != "24" {
		return NewValidationError(fmt.Errorf("clockFormat must be 12 or 24 (got %q)", conf.ClockFormat))
	}
	if _, err := conf.Location(); err != nil {
		return NewValidationError(err)
	}
	return nil
}
