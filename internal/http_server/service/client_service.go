// Package service
package service

import (
	"github.com/dustin/go-humanize"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"strings"
	"time"
)

var queryTypes = map[string]fsd.ClientQueryType{
	"ATC":     fsd.QueryIsValidATC,
	"CAPS":    fsd.QueryCapabilities,
	"C?":      fsd.QueryCom1Freq,
	"RN":      fsd.QueryRealName,
	"SV":      fsd.QueryServer,
	"ATIS":    fsd.QueryATIS,
	"IP":      fsd.QueryPublicIpAddress,
	"INF":     fsd.QueryINF,
	"FP":      fsd.QueryFP,
	"ACC":     fsd.QueryAircraftConfig,
	"SIMDATA": fsd.QueryEuroscopeSimData,
}

type ClientService struct {
	logger log.LoggerInterface
	config *config.HttpServerLimit
	client fsd.ClientInterface
}

func NewClientService(logger log.LoggerInterface, config *config.HttpServerLimit, client fsd.ClientInterface) *ClientService {
	return &ClientService{
		logger: logger,
		config: config,
		client: client,
	}
}

func (clientService *ClientService) status() *ResponseClientStatus {
	statistics := clientService.client.Statistics()
	status := &ResponseClientStatus{
		Status:        clientService.client.ConnectionStatus().String(),
		Connected:     clientService.client.IsConnected(),
		Server:        clientService.client.ServerInfo(),
		AtcCount:      len(clientService.client.AtcStations()),
		TotalSent:     humanize.Comma(int64(statistics.TotalSent)),
		TotalReceived: humanize.Comma(int64(statistics.TotalReceived)),
	}
	if since := clientService.client.ConnectedSince(); !since.IsZero() {
		status.ConnectedSince = humanize.Time(since)
		status.OnlineTime = time.Since(since).Truncate(time.Second).String()
	}
	return status
}

func (clientService *ClientService) GetStatus() *ApiResponse[ResponseClientStatus] {
	return NewApiResponse(&SuccessGetStatus, Unsatisfied, clientService.status())
}

func (clientService *ClientService) GetAtcStations() *ApiResponse[ResponseAtcStations] {
	stations := clientService.client.AtcStations()
	return NewApiResponse(&SuccessGetAtcStations, Unsatisfied, &ResponseAtcStations{
		Total:    len(stations),
		Stations: stations,
	})
}

func (clientService *ClientService) GetStatistics() *ApiResponse[fsd.Statistics] {
	statistics := clientService.client.Statistics()
	return NewApiResponse(&SuccessGetStatistics, Unsatisfied, &statistics)
}

func (clientService *ClientService) Connect() *ApiResponse[ResponseClientStatus] {
	if !clientService.client.ConnectionStatus().IsDisconnected() {
		return NewApiResponse[ResponseClientStatus](&ErrAlreadyConnected, Unsatisfied, nil)
	}
	clientService.logger.Info("Connect requested from http api")
	clientService.client.Connect()
	return NewApiResponse(&SuccessConnect, Unsatisfied, clientService.status())
}

func (clientService *ClientService) Disconnect() *ApiResponse[ResponseClientStatus] {
	if clientService.client.ConnectionStatus().IsDisconnected() {
		return NewApiResponse[ResponseClientStatus](&ErrNotConnected, Unsatisfied, nil)
	}
	clientService.logger.Info("Disconnect requested from http api")
	clientService.client.Disconnect()
	return NewApiResponse(&SuccessDisconnect, Unsatisfied, clientService.status())
}

func (clientService *ClientService) SendText(req *RequestSendText) *ApiResponse[bool] {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return NewApiResponse[bool](&ErrLackParam, Unsatisfied, nil)
	}
	if len([]rune(message)) > clientService.config.TextLengthMax {
		return NewApiResponse[bool](&ErrTextTooLong, Unsatisfied, nil)
	}

	var send func() error
	switch req.Type {
	case TextPrivate:
		if req.To == "" {
			return NewApiResponse[bool](&ErrLackParam, Unsatisfied, nil)
		}
		send = func() error { return clientService.client.SendPrivateTextMessage(req.To, message) }
	case TextRadio:
		if len(req.Frequencies) == 0 {
			return NewApiResponse[bool](&ErrLackParam, Unsatisfied, nil)
		}
		send = func() error { return clientService.client.SendRadioTextMessage(req.Frequencies, message) }
	case TextGroup:
		group := fsd.TextMessageGroup(req.To)
		if group == "" {
			group = fsd.GroupAll
		}
		send = func() error { return clientService.client.SendGroupTextMessage(group, message) }
	default:
		return NewApiResponse[bool](&ErrIllegalParam, Unsatisfied, nil)
	}

	if res := CallClientFuncAndCheckError[bool](send); res != nil {
		return res
	}
	data := true
	return NewApiResponse(&SuccessSendText, Unsatisfied, &data)
}

func (clientService *ClientService) SendPing(req *RequestSendPing) *ApiResponse[bool] {
	if res := CallClientFuncAndCheckError[bool](func() error { return clientService.client.SendPing(req.Receiver) }); res != nil {
		return res
	}
	data := true
	return NewApiResponse(&SuccessSendPing, Unsatisfied, &data)
}

func (clientService *ClientService) SendQuery(req *RequestSendQuery) *ApiResponse[bool] {
	queryType, ok := queryTypes[strings.ToUpper(req.Type)]
	if !ok {
		return NewApiResponse[bool](&ErrIllegalParam, Unsatisfied, nil)
	}
	if req.Callsign == "" {
		return NewApiResponse[bool](&ErrLackParam, Unsatisfied, nil)
	}
	send := func() error {
		return clientService.client.SendClientQuery(queryType, strings.ToUpper(req.Callsign), req.Data...)
	}
	if res := CallClientFuncAndCheckError[bool](send); res != nil {
		return res
	}
	data := true
	return NewApiResponse(&SuccessSendQuery, Unsatisfied, &data)
}
