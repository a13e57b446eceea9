// Package fsd
package fsd

// ServerErrorCode 服务器$ER报文中携带的错误码
type ServerErrorCode int

const (
	ServerErrorNone ServerErrorCode = iota
	ServerErrorCallsignInUse
	ServerErrorInvalidCallsign
	ServerErrorAlreadyRegistered
	ServerErrorSyntax
	ServerErrorInvalidSrcCallsign
	ServerErrorInvalidCidPassword
	ServerErrorNoSuchCallsign
	ServerErrorNoFlightPlan
	ServerErrorNoWeatherProfile
	ServerErrorInvalidRevision
	ServerErrorRequestedLevelTooHigh
	ServerErrorServerFull
	ServerErrorCidSuspended
	ServerErrorInvalidCtrl
	ServerErrorRatingTooLow
	ServerErrorInvalidClient
	ServerErrorAuthTimeout
	ServerErrorUnknown
)

var serverErrorsString = []string{"No error", "Callsign in use", "Invalid callsign",
	"Already registered", "Syntax error", "Invalid source callsign", "Invalid CID/password",
	"No such callsign", "No flightplan", "No such weather profile", "Invalid protocol revision",
	"Requested level too high", "Too many clients connected", "CID/PID was suspended",
	"Not valid control", "Rating too low for this position", "Unauthorized client software",
	"Authentication timeout", "Unknown error"}

func (e ServerErrorCode) String() string {
	if e < 0 || int(e) >= len(serverErrorsString) {
		return serverErrorsString[ServerErrorUnknown]
	}
	return serverErrorsString[e]
}

func (e ServerErrorCode) Index() int {
	return int(e)
}

// IsFatal 致命错误会使客户端断开连接
func (e ServerErrorCode) IsFatal() bool {
	switch e {
	case ServerErrorCallsignInUse,
		ServerErrorInvalidCallsign,
		ServerErrorAlreadyRegistered,
		ServerErrorInvalidCidPassword,
		ServerErrorInvalidRevision,
		ServerErrorRequestedLevelTooHigh,
		ServerErrorServerFull,
		ServerErrorCidSuspended,
		ServerErrorRatingTooLow,
		ServerErrorInvalidClient,
		ServerErrorAuthTimeout:
		return true
	default:
		return false
	}
}
