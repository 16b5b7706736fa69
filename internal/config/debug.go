package config

import "os"

func IsDebug() bool {
	return os.Getenv("PENNYBOT_DEBUG") == "1"
}
