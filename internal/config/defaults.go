package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultCasesPath is the default directory scanned for case files
	DefaultCasesPath = "cases"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "case-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultHistoryDir is the run journal directory, relative to the output directory
	DefaultHistoryDir = "history"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultTimeout bounds a case that sets no timeout of its own
	DefaultTimeout = 4 * time.Second
	// DefaultLogLevel is the zerolog level name used when nothing else is configured
	DefaultLogLevel = "warn"
	// DefaultConfigFile is the optional TOML file read from the project path
	DefaultConfigFile = "ctp.toml"
	// DefaultEnvFile is the optional dotenv file read from the project path
	DefaultEnvFile = ".env"
	// EnvPrefix prefixes every environment variable ctp reads
	EnvPrefix = "CTP_"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for case files
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
	"testdata",
	"_examples",
}
