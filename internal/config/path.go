package config

// PathConfig locates the external binaries the agent shells out to
type PathConfig struct {
	Rclone string `mapstructure:"rclone"`
}
