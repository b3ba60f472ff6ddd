package env

import (
	"os"
	"strconv"

	"speen_backend/internal/config"
)

const (
	logLevelEnvName = "LOG_LEVEL"
	logDirEnvName   = "LOG_DIR"
	logFileEnvName  = "LOG_FILE"
)

type loggerConfig struct {
	level string
	dir   string
	file  bool
}

func NewLoggerConfig() (config.LoggerConfig, error) {
	cfg := &loggerConfig{
		level: os.Getenv(logLevelEnvName),
		dir:   os.Getenv(logDirEnvName),
	}
	if len(cfg.level) == 0 {
		cfg.level = "info"
	}

	if f := os.Getenv(logFileEnvName); len(f) != 0 {
		v, err := strconv.ParseBool(f)
		if err != nil {
			return nil, err
		}
		cfg.file = v
	}

	return cfg, nil
}

func (cfg *loggerConfig) Level() string {
	return cfg.level
}

func (cfg *loggerConfig) Dir() string {
	return cfg.dir
}

func (cfg *loggerConfig) File() bool {
	return cfg.file
}
