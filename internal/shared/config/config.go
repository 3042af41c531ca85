package config

import (
	"os"

	"gopkg.in/ini.v1"

	"beholder/internal/shared/types"
)

// Load reads the daemon's ini configuration file into cfg.
func Load(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	overrideFromEnv(&cfg.SentinelConf.Host, "BEHOLDER_SENTINEL_HOST")
	return nil
}

func overrideFromEnv(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
