package log

// Config is the configuration of a rover's logger.
type Config struct {
	// If IsDebug is true, the log level is DebugLevel, otherwise InfoLevel.
	IsDebug bool `toml:"isDebug"`

	// PrintLog is decoded from the config file but not read: every logger
	// the rover creates writes to stdout.
	PrintLog bool `toml:"printLog"`
}
