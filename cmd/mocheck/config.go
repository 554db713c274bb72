package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName = ".mocheck"
	configType     = "yaml"
	configFolder   = "."

	envPrefix = "MOCHECK"

	suffixKey         = "check.suffix"
	excludeKey        = "check.exclude"
	jobsKey           = "check.jobs"
	continueKey       = "check.continue_on_error"
	haltOnIOKey       = "check.halt_on_io_error"
	formatKey         = "check.format"
	cacheKey          = "check.cache"
	encodingKey       = "encoding"
	uiKey             = "ui"
	maxDiagnosticsKey = "max_diagnostics"
	colorKey          = "color"
	pathModeKey       = "path_mode"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultSuffix         = ".mo"
	defaultJobs           = 1
	defaultFormat         = "text"
	defaultEncoding       = "utf-8"
	defaultMaxDiagnostics = 100

	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// newConfig returns a viper instance with defaults and environment binding.
// The config file is read later, once --config is known.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType(configType)
	v.AddConfigPath(configFolder)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(suffixKey, defaultSuffix)
	v.SetDefault(excludeKey, []string{})
	v.SetDefault(jobsKey, defaultJobs)
	v.SetDefault(continueKey, true)
	v.SetDefault(haltOnIOKey, true)
	v.SetDefault(formatKey, defaultFormat)
	v.SetDefault(cacheKey, false)
	v.SetDefault(encodingKey, defaultEncoding)
	v.SetDefault(uiKey, string(uiModeAuto))
	v.SetDefault(maxDiagnosticsKey, defaultMaxDiagnostics)
	v.SetDefault(colorKey, "auto")
	v.SetDefault(pathModeKey, "auto")

	// empty filename disables logging
	v.SetDefault(logFilenameKey, "")
	v.SetDefault(logLevelKey, defaultLogLevel)
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)
	return v
}

// readConfig loads path, or .mocheck.yaml from the working directory when
// path is empty. A missing default file is not an error.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	}
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if path == "" && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

// flagBinding pairs a command flag with its config key.
type flagBinding struct {
	flag string
	key  string
}

// bindCommandFlags binds flags at run time. Commands sharing a config key
// each bind their own flags, so only the running command's flags feed viper.
func bindCommandFlags(v *viper.Viper, flags *pflag.FlagSet, bindings []flagBinding) error {
	for _, b := range bindings {
		flag := flags.Lookup(b.flag)
		if flag == nil {
			return fmt.Errorf("flag %q for config key %q not found", b.flag, b.key)
		}
		if err := v.BindPFlag(b.key, flag); err != nil {
			return err
		}
	}
	return nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger builds the run logger. Logs go to a rotating file only;
// stdout and stderr carry results. With no file configured nothing is logged.
func configureLogger(v *viper.Viper, verbose bool) (*slog.Logger, io.Closer) {
	logPath := strings.TrimSpace(v.GetString(logFilenameKey))
	if logPath == "" {
		return slog.New(slog.DiscardHandler), nil
	}

	logLevel := parseSlogLevel(v.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    v.GetInt(logMaxSizeKey),
		MaxBackups: v.GetInt(logMaxBackupsKey),
		MaxAge:     v.GetInt(logMaxAgeKey),
		Compress:   v.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler), logWriter
}
