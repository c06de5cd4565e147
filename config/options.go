package config

const (
	defaultVersion            = "0.1.0"
	defaultLogFile            = "bookbid.log"
	defaultLogLevel           = "info"
	defaultLogFileMaxSize     = 20
	defaultLogFileMaxBackups  = 3
	defaultLogFileMaxAge      = 28
	defaultLogCompress        = false
	defaultPort               = 8080
	defaultHost               = "0.0.0.0"
	defaultData               = "/var/opt/bookbid"
	defaultCatalogFile        = "random_books.csv"
	defaultVectorsFile        = ""
	defaultOntologyFile       = "books.owl"
	defaultJWTSecret          = ""
	defaultSessionHours       = 24 * 7
	defaultPlaceholderCover   = "default_image_url.jpg"
	defaultCORSAllowedOrigins = "http://localhost:5173,http://127.0.0.1:5173"
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
	// DSN is the sqlite database to connect to
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// CatalogFile is the tabular book catalog, loaded once at startup
	CatalogFile string `mapstructure:"catalog_file"`
	// VectorsFile is the precomputed similarity vector space.
	// When empty the space is fitted from the catalog at startup.
	VectorsFile string `mapstructure:"vectors_file"`
	// OntologyFile is the book/author/genre relation graph
	OntologyFile string `mapstructure:"ontology_file"`
	// JWTSecret signs the session cookie tokens
	JWTSecret string `mapstructure:"jwt_secret"`
	// SessionHours is the lifetime of a session cookie, in hours
	SessionHours int `mapstructure:"session_hours"`
	// PlaceholderCover is used when the catalog has no image for a title
	PlaceholderCover string `mapstructure:"placeholder_cover"`
	// CORSAllowedOrigins is a comma separated list of allowed origins
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		Version:            defaultVersion,
		LogFile:            defaultLogFile,
		LogLevel:           defaultLogLevel,
		LogFileMaxSize:     defaultLogFileMaxSize,
		LogFileMaxBackups:  defaultLogFileMaxBackups,
		LogFileMaxAge:      defaultLogFileMaxAge,
		LogCompress:        defaultLogCompress,
		Port:               defaultPort,
		Host:               defaultHost,
		Data:               defaultData,
		CatalogFile:        defaultCatalogFile,
		VectorsFile:        defaultVectorsFile,
		OntologyFile:       defaultOntologyFile,
		JWTSecret:          defaultJWTSecret,
		SessionHours:       defaultSessionHours,
		PlaceholderCover:   defaultPlaceholderCover,
		CORSAllowedOrigins: defaultCORSAllowedOrigins,
	}
	return Opts
}
