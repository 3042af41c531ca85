package types

import (
	"fmt"
	"time"
)

// BeholderConf contains the daemon's own tuning parameters.
type BeholderConf struct {
	LogFile  string `ini:"log_file"`
	LogLevel string `ini:"log_level"`
	// ConnectRetryCount bounds the sentinel connection attempts.
	// 0 means retry forever.
	ConnectRetryCount int `ini:"connect_retry_count"`
	// ConnectRetryInterval is the pause between attempts, in milliseconds.
	ConnectRetryInterval int `ini:"connect_retry_interval"`
}

// SentinelConf locates the Redis Sentinel pub/sub endpoint.
type SentinelConf struct {
	Host string `ini:"host"`
	Port int    `ini:"port"`
}

// TwemproxyConf points at the proxy configuration being reconciled and the
// command that makes the proxy pick up a rewritten file.
type TwemproxyConf struct {
	ConfigFile     string `ini:"config_file"`
	RestartCommand string `ini:"restart_command"`
}

// Config is the daemon's unified configuration structure.
type Config struct {
	BeholderConf  `ini:"beholder"`
	SentinelConf  `ini:"sentinel"`
	TwemproxyConf `ini:"twemproxy"`
}

// RetryInterval converts the configured millisecond value to a duration.
func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.ConnectRetryInterval) * time.Millisecond
}

// SentinelAddr returns the sentinel endpoint in host:port form.
func (c *Config) SentinelAddr() string {
	return fmt.Sprintf("%s:%d", c.SentinelConf.Host, c.SentinelConf.Port)
}
