package config

// Task represents a backup task record declared in the config file
type Task struct {
	ID         int64                  `mapstructure:"id"`
	Path       string                 `mapstructure:"path"`
	Credential int64                  `mapstructure:"credential"`
	Schedule   string                 `mapstructure:"schedule"`
	Attributes map[string]interface{} `mapstructure:"attributes"`
}

// Credential represents a cloud credential record declared in the config file
type Credential struct {
	ID         int64                  `mapstructure:"id"`
	Name       string                 `mapstructure:"name"`
	Provider   string                 `mapstructure:"provider"`
	Attributes map[string]interface{} `mapstructure:"attributes"`
}
