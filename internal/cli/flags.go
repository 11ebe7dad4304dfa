package cli

import (
	"time"

	"ctp/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	LogLevel   string
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

	// list
	Operations bool

	// history
	Limit int
	Prune int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile: f.ConfigFile,
		LogLevel:   f.LogLevel,
		Processors: f.Processors,
		Filter:     f.Filter,
		Suites:     f.Suites,
		Partitions: f.Partitions,
		CasesPath:  f.CasesPath,
		NoBuiltin:  f.NoBuiltin,
		FailFast:   f.FailFast,
		Failed:     f.Failed,
		Shard:      f.Shard,
		JUnitPath:  f.JUnitPath,
		OpenFails:  f.OpenFails,
		Repeat:     f.Repeat,
		Timeout:    f.Timeout,
		Operations: f.Operations,
		Limit:      f.Limit,
		Prune:      f.Prune,
	}
}
