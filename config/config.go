// Package config builds the settings the rest of the module is configured
// from (spec §6 External Interfaces), grounded on the Rust GameSetting
// builder (original_source/src/lib.rs) but expressed as Go functional
// options rather than a consuming fluent chain.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Severity mirrors the sloggers::types::Severity enum the original source
// exposes (Trace..Critical); config.LogType selects one of these per sink.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) zerologLevel() zerolog.Level {
	switch s {
	case SeverityTrace:
		return zerolog.TraceLevel
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityInfo:
		return zerolog.InfoLevel
	case SeverityWarning:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	case SeverityCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogType selects where log output goes, mirroring the original source's
// LogType enum (File/Stdout/Stderr/None).
type LogType int

const (
	LogNone LogType = iota
	LogFile
	LogStdout
	LogStderr
)

// LogSetting is the resolved logging configuration.
type LogSetting struct {
	Type  LogType
	Path  string
	Level Severity
}

// DrawType selects how (or whether) the viewer mirrors the raw byte stream,
// mirroring the original source's GameShowType (with Restore dropped: spec
// §1 scopes scrollback/replay out entirely).
type DrawType int

const (
	DrawOff DrawType = iota
	DrawTerminal
)

// Draw is the resolved viewer configuration.
type Draw struct {
	Type     DrawType
	Interval time.Duration
}

// EnvVar is a single child-environment assignment.
type EnvVar struct {
	Name, Value string
}

// Config is the fully resolved configuration consumed by driver.New, which
// derives the proc.Settings it passes to proc.Spawn from it.
type Config struct {
	Cmdname string
	Lines   int
	Columns int
	Args    []string
	Envs    []EnvVar
	Log     LogSetting
	Timeout time.Duration
	MaxLoop int
	Draw    Draw
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config for cmdname with spec §6's defaults (24x80,
// timeout=100ms, max_loop=100, draw off, logging off), then applies opts in
// order.
func New(cmdname string, opts ...Option) *Config {
	c := &Config{
		Cmdname: cmdname,
		Lines:   24,
		Columns: 80,
		Timeout: 100 * time.Millisecond,
		MaxLoop: 100,
		Draw:    Draw{Type: DrawOff},
		Log:     LogSetting{Type: LogNone},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithLines(n int) Option   { return func(c *Config) { c.Lines = n } }
func WithColumns(n int) Option { return func(c *Config) { c.Columns = n } }

// WithArgs replaces the child's argument list.
func WithArgs(args ...string) Option {
	return func(c *Config) { c.Args = args }
}

// WithEnv appends one child-environment assignment. Later calls for the
// same name win, matching how the original appends user envs after the
// built-in LINES/COLUMNS/TERM trio.
func WithEnv(name, value string) Option {
	return func(c *Config) { c.Envs = append(c.Envs, EnvVar{Name: name, Value: value}) }
}

func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }
func WithMaxLoop(n int) Option           { return func(c *Config) { c.MaxLoop = n } }

// WithDrawOff disables the viewer (the default).
func WithDrawOff() Option {
	return func(c *Config) { c.Draw = Draw{Type: DrawOff} }
}

// WithDrawTerminal enables the terminal viewer, redrawing at most once per
// interval.
func WithDrawTerminal(interval time.Duration) Option {
	return func(c *Config) { c.Draw = Draw{Type: DrawTerminal, Interval: interval} }
}

// WithLogFile directs logging to path at the given severity.
func WithLogFile(path string, level Severity) Option {
	return func(c *Config) { c.Log = LogSetting{Type: LogFile, Path: path, Level: level} }
}

// WithLogStdout directs logging to stdout at the given severity.
func WithLogStdout(level Severity) Option {
	return func(c *Config) { c.Log = LogSetting{Type: LogStdout, Level: level} }
}

// WithLogStderr directs logging to stderr at the given severity.
func WithLogStderr(level Severity) Option {
	return func(c *Config) { c.Log = LogSetting{Type: LogStderr, Level: level} }
}

// Logger builds the zerolog.Logger the Log setting describes. LogNone
// returns a disabled logger (the original's NullLoggerBuilder).
func (c *Config) Logger() (zerolog.Logger, error) {
	switch c.Log.Type {
	case LogNone:
		return zerolog.Nop(), nil
	case LogFile:
		f, err := os.OpenFile(c.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("config: opening log file %q: %w", c.Log.Path, err)
		}
		return zerolog.New(f).Level(c.Log.Level.zerologLevel()).With().Timestamp().Logger(), nil
	case LogStdout:
		return zerolog.New(os.Stdout).Level(c.Log.Level.zerologLevel()).With().Timestamp().Logger(), nil
	case LogStderr:
		return zerolog.New(os.Stderr).Level(c.Log.Level.zerologLevel()).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), nil
	}
}
