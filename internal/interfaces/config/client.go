// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"net"
	"regexp"
	"slices"
	"strings"
	"time"
)

var callsignRegex = regexp.MustCompile(`^[A-Z0-9_-]{2,12}$`)

type FsdServerConfig struct {
	Name            string         `json:"name" yaml:"name"`
	Host            string         `json:"host" yaml:"host"`
	Port            uint           `json:"port" yaml:"port"`
	Ecosystem       string         `json:"ecosystem" yaml:"ecosystem"` // fsd 或 vatsim
	ServerType      fsd.ServerType `json:"-" yaml:"-"`
	Revision        int            `json:"revision" yaml:"revision"`
	LoadBalancerUrl string         `json:"load_balancer_url" yaml:"load_balancer_url"`
	AuthTokenUrl    string         `json:"auth_token_url" yaml:"auth_token_url"`
	Address         string         `json:"-" yaml:"-"`
}

func defaultFsdServerConfig() *FsdServerConfig {
	return &FsdServerConfig{
		Name:            "LOCAL",
		Host:            "127.0.0.1",
		Port:            6809,
		Ecosystem:       "fsd",
		Revision:        fsd.ProtocolRevisionClassic,
		LoadBalancerUrl: "",
		AuthTokenUrl:    "",
	}
}

func (config *FsdServerConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.Host == "" {
		return invalidField("client.server.host", "host cannot be empty")
	}
	if result := checkPort(config.Port); result.IsFail() {
		return result
	}
	switch strings.ToLower(config.Ecosystem) {
	case "fsd", "":
		config.ServerType = fsd.ServerTypeFSDServer
	case "vatsim":
		config.ServerType = fsd.ServerTypeVatsim
		if config.Revision < fsd.ProtocolRevisionVatsimAuth {
			return invalidField("client.server.revision", "vatsim servers require revision %d or above", fsd.ProtocolRevisionVatsimAuth)
		}
		if config.AuthTokenUrl == "" {
			logger.Warn("client.server.auth_token_url is empty, login token cannot be fetched from vatsim")
		}
	default:
		return invalidField("client.server.ecosystem", "only support fsd or vatsim, got %s", config.Ecosystem)
	}
	if config.Revision <= 0 {
		return invalidField("client.server.revision", "revision must be positive")
	}
	config.Address = net.JoinHostPort(config.Host, fmt.Sprintf("%d", config.Port))
	return ValidPass()
}

type UserConfig struct {
	Callsign    string        `json:"callsign" yaml:"callsign"`
	Cid         string        `json:"cid" yaml:"cid"`
	Password    string        `json:"password" yaml:"password"`
	RealName    string        `json:"real_name" yaml:"real_name"`
	HomeBase    string        `json:"home_base" yaml:"home_base"`
	LoginMode   string        `json:"login_mode" yaml:"login_mode"` // pilot 或 observer
	Mode        fsd.LoginMode `json:"-" yaml:"-"`
	PilotRating int           `json:"pilot_rating" yaml:"pilot_rating"`
	AtcRating   int           `json:"atc_rating" yaml:"atc_rating"`
}

func defaultUserConfig() *UserConfig {
	return &UserConfig{
		Callsign:    "TEST123",
		Cid:         "1000000",
		Password:    "",
		RealName:    "Simple Fsd Client",
		HomeBase:    "",
		LoginMode:   "pilot",
		PilotRating: int(fsd.PilotRatingStudent),
		AtcRating:   int(fsd.AtcRatingObserver),
	}
}

func (config *UserConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	config.Callsign = strings.ToUpper(strings.TrimSpace(config.Callsign))
	if !callsignRegex.MatchString(config.Callsign) {
		return invalidField("client.user.callsign", "callsign %q is not valid", config.Callsign)
	}
	if config.Cid == "" {
		return invalidField("client.user.cid", "cid cannot be empty")
	}
	if strings.Contains(config.RealName, ":") || strings.Contains(config.HomeBase, ":") {
		return invalidField("client.user.real_name", "real name and home base cannot contain ':'")
	}
	switch strings.ToLower(config.LoginMode) {
	case "pilot", "":
		config.Mode = fsd.LoginModePilot
	case "observer":
		config.Mode = fsd.LoginModeObserver
	default:
		return invalidField("client.user.login_mode", "only support pilot or observer, got %s", config.LoginMode)
	}
	if config.PilotRating < int(fsd.PilotRatingUnknown) || config.PilotRating > int(fsd.PilotRatingSupervisor) {
		return invalidField("client.user.pilot_rating", "rating %d out of range", config.PilotRating)
	}
	if config.AtcRating < int(fsd.AtcRatingObserver) || config.AtcRating > int(fsd.AtcRatingAdministrator) {
		return invalidField("client.user.atc_rating", "rating %d out of range", config.AtcRating)
	}
	return ValidPass()
}

type IdentityConfig struct {
	ClientId     uint16 `json:"client_id" yaml:"client_id"`
	ClientKey    string `json:"client_key" yaml:"client_key"`
	ClientName   string `json:"client_name" yaml:"client_name"`
	VersionMajor int    `json:"version_major" yaml:"version_major"`
	VersionMinor int    `json:"version_minor" yaml:"version_minor"`
	SystemUid    string `json:"system_uid" yaml:"system_uid"`
	SimType      int    `json:"sim_type" yaml:"sim_type"`
	HostApp      string `json:"host_app" yaml:"host_app"`
}

func defaultIdentityConfig() *IdentityConfig {
	return &IdentityConfig{
		ClientId:     0xe410,
		ClientKey:    "",
		ClientName:   "SimpleFsdClient",
		VersionMajor: AppVersion.Major(),
		VersionMinor: AppVersion.Minor(),
		SystemUid:    "",
		SimType:      int(fsd.SimTypeMSFS),
		HostApp:      "Headless",
	}
}

func (config *IdentityConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.ClientName == "" || strings.Contains(config.ClientName, ":") {
		return invalidField("client.identity.client_name", "client name cannot be empty or contain ':'")
	}
	if config.SimType < int(fsd.SimTypeUnknown) || config.SimType > int(fsd.SimTypeMSFS2024) {
		return invalidField("client.identity.sim_type", "sim type %d out of range", config.SimType)
	}
	return ValidPass()
}

type AircraftConfig struct {
	AircraftIcao string `json:"aircraft_icao" yaml:"aircraft_icao"`
	AirlineIcao  string `json:"airline_icao" yaml:"airline_icao"`
	Livery       string `json:"livery" yaml:"livery"`
	Model        string `json:"model" yaml:"model"`
	Equipment    string `json:"equipment" yaml:"equipment"`
}

func defaultAircraftConfig() *AircraftConfig {
	return &AircraftConfig{
		AircraftIcao: "A320",
		AirlineIcao:  "",
		Livery:       "",
		Model:        "",
		Equipment:    "A320/L",
	}
}

func (config *AircraftConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	config.AircraftIcao = strings.ToUpper(config.AircraftIcao)
	config.AirlineIcao = strings.ToUpper(config.AirlineIcao)
	if config.AircraftIcao == "" {
		return invalidField("client.aircraft.aircraft_icao", "aircraft icao cannot be empty")
	}
	return ValidPass()
}

type FeatureConfig struct {
	SendInterimPositions    bool `json:"send_interim_positions" yaml:"send_interim_positions"`
	ReceiveInterimPositions bool `json:"receive_interim_positions" yaml:"receive_interim_positions"`
	SendVisualPositions     bool `json:"send_visual_positions" yaml:"send_visual_positions"`
	ReceiveVisualPositions  bool `json:"receive_visual_positions" yaml:"receive_visual_positions"`
	SendAircraftParts       bool `json:"send_aircraft_parts" yaml:"send_aircraft_parts"`
	ReceiveAircraftParts    bool `json:"receive_aircraft_parts" yaml:"receive_aircraft_parts"`
	EuroscopeSimData        bool `json:"euroscope_sim_data" yaml:"euroscope_sim_data"`
	Force3LetterAirline     bool `json:"force_3_letter_airline" yaml:"force_3_letter_airline"`
	IcaoEquipment           bool `json:"icao_equipment" yaml:"icao_equipment"`
	Statistics              bool `json:"statistics" yaml:"statistics"`
}

func defaultFeatureConfig() *FeatureConfig {
	return &FeatureConfig{
		SendInterimPositions:    false,
		ReceiveInterimPositions: true,
		SendVisualPositions:     false,
		ReceiveVisualPositions:  true,
		SendAircraftParts:       true,
		ReceiveAircraftParts:    true,
		EuroscopeSimData:        false,
		Force3LetterAirline:     true,
		IcaoEquipment:           true,
		Statistics:              false,
	}
}

// Capabilities 根据开关计算CAPS应答中的能力集合
func (config *FeatureConfig) Capabilities() fsd.Capabilities {
	capabilities := fsd.CapabilityAtcInfo.With(fsd.CapabilityAircraftInfo)
	if config.SendInterimPositions || config.ReceiveInterimPositions {
		capabilities = capabilities.With(fsd.CapabilityFastPos)
	}
	if config.SendVisualPositions || config.ReceiveVisualPositions {
		capabilities = capabilities.With(fsd.CapabilityVisPos)
	}
	if config.SendAircraftParts || config.ReceiveAircraftParts {
		capabilities = capabilities.With(fsd.CapabilityAircraftConfig)
	}
	if config.IcaoEquipment {
		capabilities = capabilities.With(fsd.CapabilityIcaoEquipment)
	}
	return capabilities
}

type TimingConfig struct {
	PendingConnectionTimeout  string        `json:"pending_connection_timeout" yaml:"pending_connection_timeout"`
	PendingConnectionDuration time.Duration `json:"-" yaml:"-"`
	SendQueueInterval         string        `json:"send_queue_interval" yaml:"send_queue_interval"`
	SendQueueDuration         time.Duration `json:"-" yaml:"-"`
	PositionInterval          string        `json:"position_interval" yaml:"position_interval"`
	PositionDuration          time.Duration `json:"-" yaml:"-"`
	InterimInterval           string        `json:"interim_interval" yaml:"interim_interval"`
	InterimDuration           time.Duration `json:"-" yaml:"-"`
	VisualInterval            string        `json:"visual_interval" yaml:"visual_interval"`
	VisualDuration            time.Duration `json:"-" yaml:"-"`
	IncrementalConfigInterval string        `json:"incremental_config_interval" yaml:"incremental_config_interval"`
	IncrementalConfigDuration time.Duration `json:"-" yaml:"-"`
	AdditionalOffsetMs        int64         `json:"additional_offset_ms" yaml:"additional_offset_ms"`
	HttpTimeout               string        `json:"http_timeout" yaml:"http_timeout"`
	HttpDuration              time.Duration `json:"-" yaml:"-"`
}

func defaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		PendingConnectionTimeout:  "7.5s",
		SendQueueInterval:         "50ms",
		PositionInterval:          "5s",
		InterimInterval:           "1s",
		VisualInterval:            "200ms",
		IncrementalConfigInterval: "1s",
		AdditionalOffsetMs:        0,
		HttpTimeout:               "10s",
	}
}

func (config *TimingConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	fields := []struct {
		name   string
		value  string
		target *time.Duration
	}{
		{"client.timing.pending_connection_timeout", config.PendingConnectionTimeout, &config.PendingConnectionDuration},
		{"client.timing.send_queue_interval", config.SendQueueInterval, &config.SendQueueDuration},
		{"client.timing.position_interval", config.PositionInterval, &config.PositionDuration},
		{"client.timing.interim_interval", config.InterimInterval, &config.InterimDuration},
		{"client.timing.visual_interval", config.VisualInterval, &config.VisualDuration},
		{"client.timing.incremental_config_interval", config.IncrementalConfigInterval, &config.IncrementalConfigDuration},
		{"client.timing.http_timeout", config.HttpTimeout, &config.HttpDuration},
	}
	for _, field := range fields {
		duration, result := parseDuration(field.name, field.value)
		if result.IsFail() {
			return result
		}
		*field.target = duration
	}
	if config.AdditionalOffsetMs < 0 {
		return invalidField("client.timing.additional_offset_ms", "offset cannot be negative")
	}
	return ValidPass()
}

type RawLogMode string

const (
	RawLogNone        RawLogMode = "none"
	RawLogTruncate    RawLogMode = "truncate"
	RawLogAppend      RawLogMode = "append"
	RawLogTimestamped RawLogMode = "timestamped"
)

var allowedRawLogMode = []RawLogMode{RawLogNone, RawLogTruncate, RawLogAppend, RawLogTimestamped}

type RawLogConfig struct {
	Mode      RawLogMode `json:"mode" yaml:"mode"`
	Directory string     `json:"directory" yaml:"directory"`
	Emit      bool       `json:"emit" yaml:"emit"`
}

func defaultRawLogConfig() *RawLogConfig {
	return &RawLogConfig{
		Mode:      RawLogNone,
		Directory: "logs",
		Emit:      true,
	}
}

func (config *RawLogConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.Mode == "" {
		config.Mode = RawLogNone
	}
	if !slices.Contains(allowedRawLogMode, config.Mode) {
		return invalidField("client.raw_log.mode", "only support %v, got %s", allowedRawLogMode, config.Mode)
	}
	if config.Mode != RawLogNone && config.Directory == "" {
		return invalidField("client.raw_log.directory", "directory cannot be empty when raw log enabled")
	}
	return ValidPass()
}

type ClientConfig struct {
	Server      *FsdServerConfig `json:"server" yaml:"server"`
	User        *UserConfig      `json:"user" yaml:"user"`
	Identity    *IdentityConfig  `json:"identity" yaml:"identity"`
	Aircraft    *AircraftConfig  `json:"aircraft" yaml:"aircraft"`
	Features    *FeatureConfig   `json:"features" yaml:"features"`
	Timing      *TimingConfig    `json:"timing" yaml:"timing"`
	RawLog      *RawLogConfig    `json:"raw_log" yaml:"raw_log"`
	StatsDir    string           `json:"statistics_directory" yaml:"statistics_directory"`
	TextCodec   string           `json:"text_codec" yaml:"text_codec"`
	InterimRecv []string         `json:"interim_receivers" yaml:"interim_receivers"`
}

func defaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server:      defaultFsdServerConfig(),
		User:        defaultUserConfig(),
		Identity:    defaultIdentityConfig(),
		Aircraft:    defaultAircraftConfig(),
		Features:    defaultFeatureConfig(),
		Timing:      defaultTimingConfig(),
		RawLog:      defaultRawLogConfig(),
		StatsDir:    "logs",
		TextCodec:   "latin1",
		InterimRecv: make([]string, 0),
	}
}

// DefaultClientConfig 返回一份已经通过校验的默认客户端配置
func DefaultClientConfig(logger log.LoggerInterface) (*ClientConfig, error) {
	config := defaultClientConfig()
	if result := config.checkValid(logger); result.IsFail() {
		return nil, result.Error()
	}
	return config, nil
}

func (config *ClientConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.Server == nil || config.User == nil || config.Identity == nil || config.Aircraft == nil ||
		config.Features == nil || config.Timing == nil || config.RawLog == nil {
		return ValidFail(errors.New("client configuration is incomplete"))
	}
	if result := config.Server.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.User.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Identity.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Aircraft.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Timing.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.RawLog.checkValid(logger); result.IsFail() {
		return result
	}
	switch strings.ToLower(config.TextCodec) {
	case "", "latin1", "iso-8859-1", "utf-8", "utf8":
	default:
		return invalidField("client.text_codec", "unsupported text codec %s", config.TextCodec)
	}
	if config.Server.ServerType == fsd.ServerTypeVatsim && config.Identity.ClientKey == "" {
		logger.Warn("client.identity.client_key is empty, vatsim servers will reject the authentication")
	}
	return ValidPass()
}
