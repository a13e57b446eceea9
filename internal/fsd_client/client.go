// Package fsd_client FSD协议客户端引擎
// 套接字, 协议状态, 各类表格与定时器都由单个工作协程持有, 外部调用以任务形式投递
package fsd_client

import (
	"context"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client/auth"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client/packet"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"golang.org/x/time/rate"
	"net"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	taskQueueSize     = 256
	readBufferSize    = 4096
	lineBufferSize    = 16 * 1024
	defaultMaxLines   = 74
	followUpReadDelay = 10 * time.Millisecond
	dialTimeout       = 10 * time.Second
	archiveTimeout    = time.Minute
	// 本机所有速度分量都低于该值时视为静止
	visualStopThreshold = 0.00005
	visualPeriodicEvery = 25
)

type DialFunc func(ctx context.Context, network string, address string) (net.Conn, error)

// ClientOptions 客户端的外部协作者, 为空的字段使用默认实现
type ClientOptions struct {
	OwnAircraft          fsd.OwnAircraftProvider
	RemoteAircraft       fsd.RemoteAircraftProvider
	AuthenticatorFactory fsd.AuthenticatorFactory
	TokenFetcher         fsd.TokenFetcher
	LoadBalancer         fsd.LoadBalancer
	Operations           *operation.DatabaseOperations
	Archiver             fsd.Archiver
	Notifier             fsd.Notifier
	Dialer               DialFunc
}

// settings 工作协程每次使用配置时取得的副本
type settings struct {
	server       config.FsdServerConfig
	user         config.UserConfig
	identity     config.IdentityConfig
	aircraft     config.AircraftConfig
	features     config.FeatureConfig
	timing       config.TimingConfig
	capabilities fsd.Capabilities
	statsDir     string
}

func (s *settings) isObserver() bool { return s.user.Mode == fsd.LoginModeObserver }

func (s *settings) isVatsim() bool { return s.server.ServerType == fsd.ServerTypeVatsim }

type Client struct {
	logger    log.LoggerInterface
	codec     *packet.Codec
	textCodec *textCodec

	settingsLock sync.RWMutex
	config       *config.ClientConfig
	capabilities fsd.Capabilities

	ownAircraft    fsd.OwnAircraftProvider
	remoteAircraft fsd.RemoteAircraftProvider
	authFactory    fsd.AuthenticatorFactory
	tokenFetcher   fsd.TokenFetcher
	loadBalancer   fsd.LoadBalancer
	operations     *operation.DatabaseOperations
	archiver       fsd.Archiver
	notifier       fsd.Notifier
	dial           DialFunc

	tasks      chan func()
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	background sync.WaitGroup

	listenerLock   sync.RWMutex
	listeners      map[uint64]fsd.EventListener
	nextListenerId uint64

	statusLock     sync.RWMutex
	status         fsd.ConnectionStatus
	connectedSince time.Time
	serverAddress  string

	statistics *ClientStatistics
	atc        *atcTable

	// 以下字段只在工作协程中访问
	conn                net.Conn
	generation          uint64
	connLost            bool
	rehosting           bool
	rehostCount         int
	buffer              *packet.LineBuffer
	queue               *sendQueue
	timing              *TimingEstimator
	atis                *atisRegistry
	texts               *textConsolidator
	rawTap              *rawTap
	clientAuth          fsd.Authenticator
	serverAuth          fsd.Authenticator
	lastServerChallenge string
	loginSince          time.Time
	watchdog            *time.Timer
	disconnectReason    string
	history             *operation.History
	serverWantsVisual   bool
	stoppedVisual       bool
	visualPeriodic      bool
	visualTrigger       *utils.OverflowTrigger
	interimReceivers    map[string]struct{}
	sentParts           map[string]any
	partsLimiter        *rate.Limiter

	positionTicker *time.Ticker
	interimTicker  *time.Ticker
	visualTicker   *time.Ticker
	queueTicker    *time.Ticker
	configTicker   *time.Ticker
}

// NewClient 创建客户端并启动工作协程, 使用完毕后调用Close
func NewClient(logger log.LoggerInterface, cfg *config.ClientConfig, options ClientOptions) *Client {
	client := &Client{
		logger:           logger,
		codec:            packet.NewCodec(logger),
		textCodec:        newTextCodec(cfg.TextCodec),
		config:           cfg,
		capabilities:     cfg.Features.Capabilities(),
		ownAircraft:      options.OwnAircraft,
		remoteAircraft:   options.RemoteAircraft,
		authFactory:      options.AuthenticatorFactory,
		tokenFetcher:     options.TokenFetcher,
		loadBalancer:     options.LoadBalancer,
		operations:       options.Operations,
		archiver:         options.Archiver,
		notifier:         options.Notifier,
		dial:             options.Dialer,
		tasks:            make(chan func(), taskQueueSize),
		done:             make(chan struct{}),
		stopped:          make(chan struct{}),
		listeners:        make(map[uint64]fsd.EventListener),
		status:           fsd.Disconnected,
		statistics:       NewClientStatistics(cfg.Features.Statistics),
		atc:              newAtcTable(),
		buffer:           packet.NewLineBuffer(lineBufferSize),
		queue:            newSendQueue(logger),
		timing:           NewTimingEstimator(cfg.Timing.AdditionalOffsetMs),
		atis:             newAtisRegistry(),
		interimReceivers: make(map[string]struct{}),
	}
	if client.ownAircraft == nil {
		client.ownAircraft = NewStaticOwnAircraft(fsd.OwnAircraft{Com1Frequency: 122800, Com2Frequency: 122800})
	}
	if client.remoteAircraft == nil {
		provider := NewDistanceRangeProvider(client.ownAircraft, DefaultRemoteRangeNm, cfg.Features.ReceiveAircraftParts)
		client.remoteAircraft = provider
		client.Subscribe(provider.HandleEvent)
	}
	if client.authFactory == nil {
		client.authFactory = auth.NewAuthenticator
	}
	if client.tokenFetcher == nil {
		client.tokenFetcher = auth.NewHttpTokenFetcher(cfg.Server.AuthTokenUrl, cfg.Timing.HttpDuration)
	}
	if client.loadBalancer == nil {
		if cfg.Server.LoadBalancerUrl != "" {
			client.loadBalancer = auth.NewHttpLoadBalancer(logger, cfg.Server.LoadBalancerUrl, cfg.Timing.HttpDuration)
		} else {
			client.loadBalancer = auth.StaticLoadBalancer{}
		}
	}
	if client.dial == nil {
		dialer := &net.Dialer{Timeout: dialTimeout}
		client.dial = dialer.DialContext
	}
	for _, receiver := range cfg.InterimRecv {
		client.interimReceivers[strings.ToUpper(receiver)] = struct{}{}
	}
	client.rawTap = newRawTap(logger, cfg.RawLog, func(line string) { client.emit(fsd.RawFsdMessage{Line: line}) })
	client.texts = newTextConsolidator(client.post, client.emitTextMessages)
	client.visualTrigger = utils.NewOverflowTrigger(visualPeriodicEvery, func() { client.visualPeriodic = true })
	client.partsLimiter = rate.NewLimiter(rate.Every(cfg.Timing.IncrementalConfigDuration), 1)

	go client.run()
	return client
}

func tickerChannel(ticker *time.Ticker) <-chan time.Time {
	if ticker == nil {
		return nil
	}
	return ticker.C
}

func (c *Client) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			c.execute(c.shutdown)
			return
		case task := <-c.tasks:
			c.execute(task)
		case <-tickerChannel(c.queueTicker):
			c.execute(c.sendQueuedMessages)
		case <-tickerChannel(c.positionTicker):
			c.execute(c.sendPositionUpdate)
		case <-tickerChannel(c.interimTicker):
			c.execute(c.sendInterimPilotDataUpdate)
		case <-tickerChannel(c.visualTicker):
			c.execute(func() { c.sendVisualPilotDataUpdate(false) })
		case <-tickerChannel(c.configTicker):
			c.execute(c.sendIncrementalAircraftConfig)
		}
	}
}

// execute 单个任务的panic不会终止工作协程
func (c *Client) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorF("[FSD] Task panicked: %v\n%s", r, debug.Stack())
		}
	}()
	task()
}

// post 向工作协程投递任务, 客户端关闭后返回false
func (c *Client) post(task func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.tasks <- task:
		return true
	case <-c.done:
		return false
	}
}

// call 投递任务并等待执行完成
func (c *Client) call(task func()) error {
	finished := make(chan struct{})
	if !c.post(func() {
		defer close(finished)
		task()
	}) {
		return fsd.ErrClientClosed
	}
	select {
	case <-finished:
		return nil
	case <-c.stopped:
		return fsd.ErrClientClosed
	}
}

func (c *Client) shutdown() {
	if c.conn != nil || !c.ConnectionStatus().IsDisconnected() {
		c.disconnectReason = "client shutdown"
		c.disconnect()
	}
	c.stopPositionTimers()
	c.texts.Clear()
	c.rawTap.Close()
}

// Close 断开连接并停止工作协程, 等待后台归档完成
func (c *Client) Close(ctx context.Context) error {
	c.closeOnce.Do(func() { close(c.done) })
	select {
	case <-c.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	finished := make(chan struct{})
	go func() {
		c.background.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type ShutdownCallback struct {
	client *Client
}

func NewShutdownCallback(client *Client) *ShutdownCallback {
	return &ShutdownCallback{client: client}
}

func (sc *ShutdownCallback) Invoke(ctx context.Context) error {
	return sc.client.Close(ctx)
}

func (c *Client) Subscribe(listener fsd.EventListener) (unsubscribe func()) {
	c.listenerLock.Lock()
	id := c.nextListenerId
	c.nextListenerId++
	c.listeners[id] = listener
	c.listenerLock.Unlock()
	return func() {
		c.listenerLock.Lock()
		delete(c.listeners, id)
		c.listenerLock.Unlock()
	}
}

// emit 按注册顺序调用监听器
func (c *Client) emit(event fsd.Event) {
	c.listenerLock.RLock()
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	listeners := make([]fsd.EventListener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.listenerLock.RUnlock()
	for _, listener := range listeners {
		listener(event)
	}
}

func (c *Client) settings() settings {
	c.settingsLock.RLock()
	defer c.settingsLock.RUnlock()
	return settings{
		server:       *c.config.Server,
		user:         *c.config.User,
		identity:     *c.config.Identity,
		aircraft:     *c.config.Aircraft,
		features:     *c.config.Features,
		timing:       *c.config.Timing,
		capabilities: c.capabilities,
		statsDir:     c.config.StatsDir,
	}
}

func (c *Client) callsign() string {
	c.settingsLock.RLock()
	defer c.settingsLock.RUnlock()
	return c.config.User.Callsign
}

// updateSettings 只有断开连接时允许修改配置
// 连接状态只在工作协程中改变, 检查与修改都在工作协程中完成, 因此不能在事件监听器中调用
func (c *Client) updateSettings(update func(cfg *config.ClientConfig)) error {
	var result error
	err := c.call(func() {
		if !c.ConnectionStatus().IsDisconnected() {
			result = fsd.ErrNotDisconnected
			return
		}
		c.settingsLock.Lock()
		defer c.settingsLock.Unlock()
		update(c.config)
	})
	if err != nil {
		return err
	}
	return result
}

func (c *Client) SetServer(name string, host string, port uint) error {
	if host == "" || port == 0 || port > 65535 {
		return fmt.Errorf("invalid server address %s:%d", host, port)
	}
	return c.updateSettings(func(cfg *config.ClientConfig) {
		cfg.Server.Name = name
		cfg.Server.Host = host
		cfg.Server.Port = port
		cfg.Server.Address = net.JoinHostPort(host, fmt.Sprintf("%d", port))
	})
}

func (c *Client) SetCallsign(callsign string) error {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if callsign == "" || strings.Contains(callsign, packet.Separator) {
		return fmt.Errorf("invalid callsign %q", callsign)
	}
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.User.Callsign = callsign })
}

func (c *Client) SetIcaoCodes(aircraftIcao string, airlineIcao string) error {
	return c.updateSettings(func(cfg *config.ClientConfig) {
		cfg.Aircraft.AircraftIcao = strings.ToUpper(aircraftIcao)
		cfg.Aircraft.AirlineIcao = strings.ToUpper(airlineIcao)
	})
}

func (c *Client) SetLiveryString(livery string) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.Aircraft.Livery = livery })
}

func (c *Client) SetModelString(model string) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.Aircraft.Model = model })
}

func (c *Client) SetSimType(simType fsd.SimType) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.Identity.SimType = int(simType) })
}

func (c *Client) SetLoginMode(mode fsd.LoginMode) error {
	return c.updateSettings(func(cfg *config.ClientConfig) {
		cfg.User.Mode = mode
		cfg.User.LoginMode = mode.String()
	})
}

func (c *Client) SetCapabilities(capabilities fsd.Capabilities) error {
	return c.updateSettings(func(_ *config.ClientConfig) { c.capabilities = capabilities })
}

func (c *Client) SetPilotRating(rating fsd.PilotRating) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.User.PilotRating = int(rating) })
}

func (c *Client) SetAtcRating(rating fsd.AtcRating) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.User.AtcRating = int(rating) })
}

func (c *Client) SetSimulatorInfo(hostApp string) error {
	return c.updateSettings(func(cfg *config.ClientConfig) { cfg.Identity.HostApp = hostApp })
}

func (c *Client) ConnectionStatus() fsd.ConnectionStatus {
	c.statusLock.RLock()
	defer c.statusLock.RUnlock()
	return c.status
}

func (c *Client) IsConnected() bool {
	return c.ConnectionStatus().IsConnected()
}

func (c *Client) ConnectedSince() time.Time {
	c.statusLock.RLock()
	defer c.statusLock.RUnlock()
	if c.status != fsd.Connected {
		return time.Time{}
	}
	return c.connectedSince
}

func (c *Client) AtcStations() []fsd.AtcStation {
	return c.atc.Snapshot()
}

func (c *Client) Statistics() fsd.Statistics {
	return c.statistics.Snapshot()
}

func (c *Client) ServerInfo() fsd.ServerInfo {
	s := c.settings()
	c.statusLock.RLock()
	defer c.statusLock.RUnlock()
	address := c.serverAddress
	if address == "" {
		address = s.server.Host
	}
	info := fsd.ServerInfo{
		Name:       s.server.Name,
		Address:    address,
		Port:       int(s.server.Port),
		ServerType: s.server.ServerType,
		Revision:   s.server.Revision,
		Callsign:   s.user.Callsign,
		LoginMode:  s.user.Mode,
	}
	if c.status == fsd.Connected {
		info.ConnectedAt = c.connectedSince
	}
	return info
}

var _ fsd.ClientInterface = (*Client)(nil)
