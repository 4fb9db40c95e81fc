package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix = "SWIFTLINT"

	configFlagName         = "config"
	colorFlagName          = "color"
	quietFlagName          = "quiet"
	jobsFlagName           = "jobs"
	maxDiagnosticsFlagName = "max-diagnostics"
	timingsFlagName        = "timings"
	uiFlagName             = "ui"

	logFileFlagName  = "log-file"
	logLevelFlagName = "log-level"

	traceFlagName          = "trace"
	traceLevelFlagName     = "trace-level"
	traceModeFlagName      = "trace-mode"
	traceRingSizeFlagName  = "trace-ring-size"
	traceHeartbeatFlagName = "trace-heartbeat"

	cpuProfileFlagName   = "cpu-profile"
	memProfileFlagName   = "mem-profile"
	runtimeTraceFlagName = "runtime-trace"

	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
)

// newViper returns the settings store for one invocation. Flags override
// SWIFTLINT_* environment variables, which override the defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(colorFlagName, "auto")
	v.SetDefault(uiFlagName, "off")
	v.SetDefault(logLevelFlagName, "warn")
	v.SetDefault(traceLevelFlagName, "off")
	v.SetDefault(traceModeFlagName, "stream")
	v.SetDefault(traceRingSizeFlagName, 4096)
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, true)
	return v
}

func configureRootFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringP(configFlagName, "c", "", "configuration file (default: nearest .swiftlint.toml)")
	flags.String(colorFlagName, v.GetString(colorFlagName), "colorize output (auto|on|off)")
	flags.BoolP(quietFlagName, "q", false, "suppress the summary and status lines")
	flags.IntP(jobsFlagName, "j", 0, "max parallel workers (0 = GOMAXPROCS)")
	flags.Int(maxDiagnosticsFlagName, 0, "maximum diagnostics per file (0 = configuration or unlimited)")
	flags.Bool(timingsFlagName, false, "print per-phase timings")
	flags.String(uiFlagName, v.GetString(uiFlagName), "progress UI (auto|on|off)")

	flags.String(logFileFlagName, "", "write the operational log to a rotated file instead of stderr")
	flags.String(logLevelFlagName, v.GetString(logLevelFlagName), "log level (debug|info|warn|error)")

	flags.String(traceFlagName, "", "trace output file (- for stderr)")
	flags.String(traceLevelFlagName, v.GetString(traceLevelFlagName), "trace level (off|error|phase|detail|debug)")
	flags.String(traceModeFlagName, v.GetString(traceModeFlagName), "trace mode (stream|ring|both)")
	flags.Int(traceRingSizeFlagName, v.GetInt(traceRingSizeFlagName), "ring buffer size for ring trace mode")
	flags.Duration(traceHeartbeatFlagName, 0, "emit heartbeat trace events at this interval (0 = off)")

	flags.String(cpuProfileFlagName, "", "write a CPU profile to this file")
	flags.String(memProfileFlagName, "", "write a heap profile to this file on exit")
	flags.String(runtimeTraceFlagName, "", "write a Go runtime trace to this file")

	flags.VisitAll(func(f *pflag.Flag) {
		bindFlagToConfig(v, f, f.Name)
	})
}

// bindFlagToConfig wires a Cobra flag to a Viper key so env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	switch level {
	case "":
		return defaultLevel
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return defaultLevel
}

// setupLogging installs the operational logger: a text handler on stderr,
// or on a lumberjack-rotated file when --log-file is set.
func (a *app) setupLogging(stderr io.Writer) error {
	level := parseSlogLevel(a.v.GetString(logLevelFlagName), slog.LevelWarn)
	out := stderr
	if path := strings.TrimSpace(a.v.GetString(logFileFlagName)); path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    a.v.GetInt(logMaxSizeKey),
			MaxBackups: a.v.GetInt(logMaxBackupsKey),
			MaxAge:     a.v.GetInt(logMaxAgeKey),
			Compress:   a.v.GetBool(logCompressKey),
		}
		a.cleanup = append(a.cleanup, func() { _ = lj.Close() })
		out = lj
	}
	a.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return nil
}

// useColor resolves --color against the writer it applies to.
func (a *app) useColor(w io.Writer) (bool, error) {
	switch mode := strings.ToLower(strings.TrimSpace(a.v.GetString(colorFlagName))); mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(w), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}
