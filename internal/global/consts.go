package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion  string = "v1.2.0"
	ProgBaseName string = "svclog"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	// Startup parameter defaults
	DefaultLogFile        string = "statistics.log"
	DefaultDelimiter      string = "|"
	DefaultQueueCapacity  int    = 4096
	MinimumQueueCapacity  int    = 2
	DefaultLogFileMode           = 0640
	EnvPrefix             string = "SVCLOG_"
	DefaultDotEnvFilePath string = ".env"

	// Fixed interval between connection attempts. Never adapted at runtime.
	DefaultReconnectBackoff time.Duration = 30 * time.Second

	// Timeout values
	DefaultDialTimeout time.Duration = 10 * time.Second
	ShutdownTimeout    time.Duration = 10 * time.Second

	// Metric HTTP server
	DefaultMetricPort         int           = 28514
	DefaultMetricInterval     time.Duration = 15 * time.Second
	DefaultMetricMaxAge       time.Duration = 1 * time.Hour
	HTTPListenAddr            string        = "localhost" // Metric queries only exposed to local machine
	HTTPReadTimeout           time.Duration = 30 * time.Second
	HTTPWriteTimeout          time.Duration = 10 * time.Second
	HTTPIdleTimeout           time.Duration = 180 * time.Second
	DataPath                  string        = "/data"
	DiscoveryPath             string        = "/discover"
	HealthPath                string        = "/health"
	DefaultBeatsDialTimeout   time.Duration = 3 * time.Second
	DefaultBeatsRedialBackoff time.Duration = 10 * time.Second
	DefaultSQLiteBusyTimeout  time.Duration = 5 * time.Second

	// Namespacing Name Components
	NSMetric     string = "Metrics"
	NSMetricSrv  string = "Server"
	NSTest       string = "Test"
	NSCLI        string = "CLI"
	NSDaemon     string = "Daemon"
	NSSupervisor string = "Supervisor"
	NSSource     string = "Source"
	NSProc       string = "Processor"
	NSQueue      string = "Queue"
	NSWriter     string = "Writer"
	NSLifecycle  string = "Lifecycle"
	NSoBeats     string = "Beats"
	NSoSQLite    string = "SQLite"
)
