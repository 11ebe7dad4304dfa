package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	CasesPath   string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	HistoryDir     string

	// Execution settings
	Processors int
	Timeout    time.Duration

	LogLevel string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	Processors int
	Filter     string
	Suites     []string
	Partitions []string
	CasesPath  string
	NoBuiltin  bool
	FailFast   bool
	Failed     bool
	Shard      string
	JUnitPath  string
	OpenFails  bool
	Repeat     int
	Timeout    time.Duration
	LogLevel   string

	Operations bool // list operations instead of cases
	Limit      int  // history entries to show
	Prune      int  // history entries to keep
}

// fileConfig is the layout of ctp.toml. Pointers tell unset keys from zero values.
type fileConfig struct {
	CasesPath     *string  `toml:"cases_path"`
	OutputDir     *string  `toml:"output_dir"`
	OutputFile    *string  `toml:"output_file"`
	HistoryDir    *string  `toml:"history_dir"`
	Processors    *int     `toml:"processors"`
	Timeout       *string  `toml:"timeout"`
	LogLevel      *string  `toml:"log_level"`
	PathsToIgnore []string `toml:"paths_to_ignore"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		CasesPath:      DefaultCasesPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		HistoryDir:     DefaultHistoryDir,
		Processors:     DefaultProcessors,
		Timeout:        DefaultTimeout,
		LogLevel:       DefaultLogLevel,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, the optional ctp.toml and .env files, CTP_*
// environment variables and finally the flags, each layer overriding the previous one.
func Load(flags Flags) (*Config, error) {
	cfg := New()

	configFile := flags.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(cfg.ProjectPath, DefaultConfigFile)
	}
	if err := cfg.applyFile(configFile, explicit); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(filepath.Join(cfg.ProjectPath, DefaultEnvFile))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)
	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}

	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}

	if fc.CasesPath != nil {
		c.CasesPath = *fc.CasesPath
	}
	if fc.OutputDir != nil {
		c.OutputJSONDir = *fc.OutputDir
	}
	if fc.OutputFile != nil {
		c.OutputJSONFile = *fc.OutputFile
	}
	if fc.HistoryDir != nil {
		c.HistoryDir = *fc.HistoryDir
	}
	if fc.Processors != nil {
		if *fc.Processors <= 0 {
			return fmt.Errorf("parse %s: processors must be positive, got %d", path, *fc.Processors)
		}
		c.Processors = *fc.Processors
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse %s: timeout: %w", path, err)
		}
		c.Timeout = d
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.PathsToIgnore != nil {
		c.PathsToIgnore = fc.PathsToIgnore
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(key string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "CASES_PATH"); ok && v != "" {
		c.CasesPath = v
	}
	if v, ok := lookup(EnvPrefix + "OUTPUT_DIR"); ok && v != "" {
		c.OutputJSONDir = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "PROCESSORS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%sPROCESSORS must be a positive integer, got %q", EnvPrefix, v)
		}
		c.Processors = n
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "PATHS_TO_IGNORE"); ok && v != "" {
		c.PathsToIgnore = strings.Split(v, ",")
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// GetCasesPath returns the case file directory, using the flag if provided
func (c *Config) GetCasesPath() string {
	path := c.CasesPath
	if c.Flags.CasesPath != "" {
		path = c.Flags.CasesPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectPath, path)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and fails always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetHistoryPath returns the run journal directory
func (c *Config) GetHistoryPath() string {
	if filepath.IsAbs(c.HistoryDir) {
		return c.HistoryDir
	}
	return filepath.Join(filepath.Dir(c.GetOutputPath()), c.HistoryDir)
}

// Shard selects every Total-th case starting at Index. Index is 1-based.
type Shard struct {
	Index int
	Total int
}

// Enabled reports whether the shard splits the run at all
func (s Shard) Enabled() bool {
	return s.Total > 1
}

// ParseShard parses an "i/n" shard flag. The empty string disables sharding.
func ParseShard(s string) (Shard, error) {
	if s == "" {
		return Shard{Index: 1, Total: 1}, nil
	}
	index, total, ok := strings.Cut(s, "/")
	if !ok {
		return Shard{}, fmt.Errorf("invalid shard %q: want i/n", s)
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		return Shard{}, fmt.Errorf("invalid shard %q: %w", s, err)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return Shard{}, fmt.Errorf("invalid shard %q: %w", s, err)
	}
	if n <= 0 || i <= 0 || i > n {
		return Shard{}, fmt.Errorf("invalid shard %q: index must be within 1..%d", s, n)
	}
	return Shard{Index: i, Total: n}, nil
}
