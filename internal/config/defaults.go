package config

const (
	defaultGatewayBaseURL        = "http://127.0.0.1:8000"
	defaultGatewayRequestTimeout = 30
	defaultPollInterval          = 3
	defaultPollBackoff           = 1.0
	defaultPollIntervalMax       = 30
	defaultMaxWait               = 900
	defaultLibraryDir            = "~/.local/share/repocast/episodes"
	defaultLogDir                = "~/.local/share/repocast/logs"
	defaultPlayerBinary          = "ffplay"
	defaultFFprobeBinary         = "ffprobe"
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Gateway: Gateway{
			BaseURL:        defaultGatewayBaseURL,
			RequestTimeout: defaultGatewayRequestTimeout,
		},
		Workflow: Workflow{
			PollInterval:    defaultPollInterval,
			PollBackoff:     defaultPollBackoff,
			PollIntervalMax: defaultPollIntervalMax,
			MaxWait:         defaultMaxWait,
		},
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Player: Player{
			Binary:        defaultPlayerBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Autoplay:      true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Ready:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
