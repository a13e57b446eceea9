// Package global
package global

import (
	"flag"
	"time"
)

var (
	DebugMode      = flag.Bool("debug", false, "Enable debug mode")
	ConfigFilePath = flag.String("config", "./config.json", "Path to configuration file")
	EnvFilePath    = flag.String("env", ".env", "Path to dotenv file holding credentials")
	NoConnect      = flag.Bool("no_connect", false, "Do not connect to the fsd server on startup")
)

const (
	AppVersion    = "0.2.0"
	ConfigVersion = "0.2.0"

	DefaultFilePermissions     = 0644
	DefaultDirectoryPermission = 0755

	FSDServerName = "SERVER"

	// EuroscopeSimDataReceiver 与 AircraftConfigReceiver 是网络约定的私有频道
	EuroscopeSimDataReceiver = "@94835"
	AircraftConfigReceiver   = "@94836"

	ObserverFrequency = 199998

	DefaultLogFile = "logs/fsd-client.log"

	ShutdownTimeout = 10 * time.Second
)
