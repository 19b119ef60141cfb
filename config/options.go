package config

const (
	defaultVersion           = "0.1.0"
	defaultLogFile           = "truyenhub.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultData              = "/var/opt/truyenhub"
	defaultAccountsAPIURL    = "http://192.168.1.39:3000"
	defaultBatchSize         = 10
	defaultFetchPoolSize     = 10
)

var Opts *Options

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// Version is the version of the application
	Version string `mapstructure:"version"`
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// Data is the directory to store local data (document cache, session)
	Data string `mapstructure:"data"`
	// DSN is the path of the local document database (sqlite)
	DSN string `mapstructure:"dsn_uri"`
	// AccountsAPIURL is the base URL of the accounts REST service
	AccountsAPIURL string `mapstructure:"accounts_api_url"`
	// BatchSize bounds how many documents a batch read fetches at once
	BatchSize int `mapstructure:"batch_size"`
	// FetchPoolSize is the number of background fetch workers
	FetchPoolSize int `mapstructure:"fetch_pool_size"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		Version:           defaultVersion,
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		Data:              defaultData,
		AccountsAPIURL:    defaultAccountsAPIURL,
		BatchSize:         defaultBatchSize,
		FetchPoolSize:     defaultFetchPoolSize,
	}
	return Opts
}
