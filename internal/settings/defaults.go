package settings

const (
	DefaultConfigPath     = "config/console.json"
	DefaultBaseURL        = "http://localhost:8080"
	DefaultLogLevel       = "info"
	DefaultStateDir       = ".recruit-console"
	DefaultTimeoutSeconds = 0
	DefaultUploadWorkers  = 0
	schemaVersion         = 1
)

// EnvFiles are loaded, when present, before environment overrides are applied.
var EnvFiles = []string{".env", ".env.local"}
