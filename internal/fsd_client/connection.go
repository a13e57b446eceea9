package fsd_client

import (
	"context"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client/packet"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"math"
	"net"
	"strings"
	"time"
)

const watchdogFactor = 1.25

// Connect 开始连接, 已经打开套接字时不做任何事
func (c *Client) Connect() {
	c.post(c.connect)
}

// Disconnect 发送下线报文后关闭套接字
func (c *Client) Disconnect() {
	c.post(func() {
		c.disconnectReason = "user request"
		c.disconnect()
	})
}

func (c *Client) connect() {
	if c.conn != nil {
		return
	}
	s := c.settings()
	c.clearState()
	c.rawTap.ArmPasswordFilter()
	now := time.Now()
	c.loginSince = now
	c.disconnectReason = ""
	c.rehostCount = 0
	c.statistics.SetEnabled(s.features.Statistics)
	if err := c.rawTap.Open(now); err != nil {
		c.logger.WarnF("[FSD] %v", err)
	}

	c.stopWatchdog()
	timeout := time.Duration(math.Round(float64(s.timing.PendingConnectionDuration) * watchdogFactor))
	c.watchdog = time.AfterFunc(timeout, func() { c.post(c.checkPendingConnection) })

	c.updateConnectionStatus(fsd.Connecting)

	c.generation++
	generation := c.generation
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		conn, address, err := c.dialServer(s.server, s.server.Host, false)
		if !c.post(func() { c.handleDialResult(generation, conn, address, err) }) && conn != nil {
			_ = conn.Close()
		}
	}()
}

// useLoadBalancer 只有VATSIM主机名在AUTOMATIC或重定向时才走负载均衡
func useLoadBalancer(server config.FsdServerConfig, host string, rehosting bool) bool {
	if net.ParseIP(host) != nil || server.ServerType != fsd.ServerTypeVatsim {
		return false
	}
	return strings.EqualFold(server.Name, "AUTOMATIC") || rehosting
}

// dialServer 在独立协程中执行, 不访问工作协程的状态
func (c *Client) dialServer(server config.FsdServerConfig, host string, rehosting bool) (net.Conn, string, error) {
	if useLoadBalancer(server, host, rehosting) {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		resolved := c.loadBalancer.Resolve(ctx, host)
		cancel()
		if resolved != "" {
			host = resolved
		}
	}
	address := net.JoinHostPort(host, fmt.Sprintf("%d", server.Port))
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := c.dial(ctx, "tcp", address)
	return conn, address, err
}

func (c *Client) handleDialResult(generation uint64, conn net.Conn, address string, err error) {
	if generation != c.generation || c.ConnectionStatus() != fsd.Connecting {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.logger.ErrorF("[FSD] Failed to connect to %s: %v", address, err)
		c.emit(fsd.SevereNetworkError{Description: err.Error()})
		c.disconnectReason = err.Error()
		c.disconnect()
		return
	}
	c.logger.InfoF("[FSD] Socket connected to %s", address)
	c.setServerAddress(address)
	c.attachConnection(conn)
	c.startPositionTimers()

	s := c.settings()
	if s.server.Revision < fsd.ProtocolRevisionVatsimAuth {
		c.sendLogin("")
		c.updateConnectionStatus(fsd.Connected)
	}
	// 认证版本的协议等待服务器的$DI
}

func (c *Client) setServerAddress(address string) {
	c.statusLock.Lock()
	c.serverAddress = address
	c.statusLock.Unlock()
}

func (c *Client) attachConnection(conn net.Conn) {
	c.conn = conn
	c.connLost = false
	c.buffer.Reset()
	go c.readLoop(conn)
}

func (c *Client) readLoop(conn net.Conn) {
	buffer := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buffer[:n])
			if !c.post(func() { c.receiveData(conn, data) }) {
				return
			}
		}
		if err != nil {
			c.post(func() { c.handleReadError(conn, err) })
			return
		}
	}
}

func (c *Client) handleReadError(conn net.Conn, err error) {
	if conn != c.conn {
		return
	}
	if c.rehosting {
		c.logger.DebugF("[FSD] Ignoring socket error while rehosting: %v", err)
		c.connLost = true
		return
	}
	description := describeNetError(err)
	c.logger.ErrorF("[FSD] Socket error: %s", description)
	c.emit(fsd.SevereNetworkError{Description: description})
	c.disconnectReason = description
	c.disconnect()
}

func (c *Client) disconnect() {
	c.stopPositionTimers()
	c.stopWatchdog()
	if c.conn == nil && c.ConnectionStatus().IsDisconnected() {
		return
	}
	c.updateConnectionStatus(fsd.Disconnecting)
	c.generation++
	c.rehosting = false

	if c.conn != nil {
		s := c.settings()
		var message packet.Message
		if s.isObserver() {
			message = packet.NewDeleteAtc(s.user.Callsign, s.user.Cid)
		} else {
			message = packet.NewDeletePilot(s.user.Callsign, s.user.Cid)
		}
		c.sendDirect(message)
		if err := c.conn.Close(); err != nil && !isNetClosedError(err) {
			c.logger.WarnF("[FSD] Error while closing socket, %v", err)
		}
		c.conn = nil
	}
	c.updateConnectionStatus(fsd.Disconnected)
	c.clearState()
}

func (c *Client) updateConnectionStatus(status fsd.ConnectionStatus) {
	c.statusLock.Lock()
	old := c.status
	if old == status {
		c.statusLock.Unlock()
		return
	}
	c.status = status
	if status == fsd.Connected {
		c.connectedSince = time.Now()
	}
	if status == fsd.Disconnected {
		c.serverAddress = ""
	}
	c.statusLock.Unlock()
	connectionStatusGauge.Set(float64(status))
	c.logger.DebugF("[FSD] Connection status %s -> %s", old, status)

	switch status {
	case fsd.Connected:
		c.stopWatchdog()
		c.startSession()
	case fsd.Disconnected:
		c.stopPositionTimers()
		c.stopWatchdog()
		c.clearState()
		c.finishSession()
	}
	c.emit(fsd.ConnectionStatusChanged{Old: old, New: status})
}

func (c *Client) stopWatchdog() {
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
}

// checkPendingConnection 连接或断开过程超时后强制断开
func (c *Client) checkPendingConnection() {
	status := c.ConnectionStatus()
	if status != fsd.Connecting && status != fsd.Disconnecting {
		return
	}
	s := c.settings()
	if !c.loginSince.IsZero() && time.Since(c.loginSince) < s.timing.PendingConnectionDuration {
		return
	}
	c.logger.WarnF("[FSD] Timeout on pending connection to '%s'", s.server.Name)
	c.disconnectReason = "pending connection timeout"
	c.disconnect()
}

func (c *Client) startPositionTimers() {
	c.stopPositionTimers()
	s := c.settings()
	c.positionTicker = time.NewTicker(s.timing.PositionDuration)
	c.configTicker = time.NewTicker(s.timing.IncrementalConfigDuration)
	c.queueTicker = time.NewTicker(s.timing.SendQueueDuration)
	c.queue.Clear()
	if s.features.SendInterimPositions {
		c.interimTicker = time.NewTicker(s.timing.InterimDuration)
	}
	if s.features.SendVisualPositions {
		c.visualTicker = time.NewTicker(s.timing.VisualDuration)
	}
}

func (c *Client) stopPositionTimers() {
	for _, ticker := range []**time.Ticker{&c.positionTicker, &c.configTicker, &c.queueTicker, &c.interimTicker, &c.visualTicker} {
		if *ticker != nil {
			(*ticker).Stop()
			*ticker = nil
		}
	}
}

// clearState 清除与本次连接相关的所有状态
func (c *Client) clearState() {
	c.rehosting = false
	c.stoppedVisual = false
	c.serverWantsVisual = false
	c.visualPeriodic = true
	c.visualTrigger.Reset()
	c.texts.Clear()
	c.atis.Clear()
	c.timing.ClearAll()
	c.atc.Clear()
	atcStationsGauge.Set(0)
	c.queue.Clear()
	sendQueueGauge.Set(0)
	c.sentParts = nil
	c.loginSince = time.Time{}
	c.lastServerChallenge = ""
	c.clientAuth = nil
	c.serverAuth = nil
}

// clearCallsignState 远端下线时清除与该呼号相关的状态
func (c *Client) clearCallsignState(callsign string) {
	c.atis.Remove(callsign)
	c.timing.Clear(callsign)
	delete(c.interimReceivers, callsign)
}

func (c *Client) sendLogin(token string) {
	s := c.settings()
	password := s.user.Password
	if token != "" {
		password = token
	}
	name := strings.TrimSpace(s.user.RealName + " " + s.user.HomeBase)
	if s.isObserver() {
		c.logger.InfoF("[FSD] Sending login as observer %s %s", s.user.Callsign, s.user.Cid)
		c.queueMessage(packet.NewAddAtc(s.user.Callsign, name, s.user.Cid, password,
			fsd.AtcRating(s.user.AtcRating), s.server.Revision))
	} else {
		c.logger.InfoF("[FSD] Sending login as %s %s %s %s", s.user.Callsign, s.user.Cid,
			fsd.PilotRating(s.user.PilotRating), fsd.SimType(s.identity.SimType))
		c.queueMessage(packet.NewAddPilot(s.user.Callsign, s.user.Cid, password, fsd.PilotRating(s.user.PilotRating),
			s.server.Revision, fsd.SimType(s.identity.SimType), name))
	}
	if s.features.EuroscopeSimData {
		c.queueMessage(packet.NewClientQuery(s.user.Callsign, global.EuroscopeSimDataReceiver, fsd.QueryEuroscopeSimData, "1"))
	}
}

func (c *Client) handleFsdIdentification(message *packet.FsdIdentification) {
	s := c.settings()
	if s.server.Revision < fsd.ProtocolRevisionVatsimAuth {
		c.logger.Error("[FSD] You tried to connect to a VATSIM server without using VATSIM protocol, disconnecting!")
		c.disconnectReason = "protocol revision mismatch"
		c.disconnect()
		return
	}
	c.clientAuth = c.authFactory(s.identity.ClientId, s.identity.ClientKey)
	c.serverAuth = c.authFactory(s.identity.ClientId, s.identity.ClientKey)
	c.clientAuth.SetInitialChallenge(message.InitialChallenge)
	challenge := c.serverAuth.GenerateChallenge()
	c.serverAuth.SetInitialChallenge(challenge)

	c.queueMessage(packet.NewClientIdentification(s.user.Callsign, s.identity.ClientId, s.identity.ClientName,
		s.identity.VersionMajor, s.identity.VersionMinor, s.user.Cid, s.identity.SystemUid, challenge))

	if !s.isVatsim() {
		c.sendLogin("")
		c.updateConnectionStatus(fsd.Connected)
		return
	}
	generation := c.generation
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timing.HttpDuration)
		defer cancel()
		token, err := c.tokenFetcher.FetchToken(ctx, s.user.Cid, s.user.Password)
		c.post(func() { c.handleToken(generation, token, err) })
	}()
}

func (c *Client) handleToken(generation uint64, token string, err error) {
	if generation != c.generation || c.conn == nil {
		return
	}
	if err != nil {
		c.logger.ErrorF("[FSD] VATSIM auth token endpoint: %v", err)
		c.disconnectReason = "auth token unavailable"
		c.disconnect()
		return
	}
	c.sendLogin(token)
	c.updateConnectionStatus(fsd.Connected)
}

func (c *Client) handleAuthChallenge(message *packet.AuthChallenge) {
	if c.clientAuth == nil || c.serverAuth == nil {
		c.logger.Warn("[FSD] Received auth challenge before server identification")
		return
	}
	callsign := c.callsign()
	response := c.clientAuth.GenerateResponse(message.Challenge)
	c.sendDirect(packet.NewAuthResponse(callsign, packet.FsdServerReceiver, response))

	c.lastServerChallenge = c.serverAuth.GenerateChallenge()
	c.sendDirect(packet.NewAuthChallenge(callsign, packet.FsdServerReceiver, c.lastServerChallenge))
}

func (c *Client) handleAuthResponse(message *packet.AuthResponse) {
	if c.serverAuth == nil {
		return
	}
	expected := c.serverAuth.GenerateResponse(c.lastServerChallenge)
	if message.Response != expected {
		c.logger.Error("[FSD] The server you are connected to is not a VATSIM server. Disconnecting!")
		c.disconnectReason = "server authentication failed"
		c.disconnect()
	}
}

// handleRehost 连接到新主机, 成功后替换套接字, 状态不变
func (c *Client) handleRehost(message *packet.Rehost) {
	s := c.settings()
	c.logger.InfoF("[Rehost] Server requested we switch server to %s", message.Hostname)
	c.rehosting = true
	generation := c.generation
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		conn, address, err := c.dialServer(s.server, message.Hostname, true)
		if !c.post(func() { c.handleRehostResult(generation, conn, address, err) }) && conn != nil {
			_ = conn.Close()
		}
	}()
}

func (c *Client) handleRehostResult(generation uint64, conn net.Conn, address string, err error) {
	if generation != c.generation {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	c.rehosting = false
	if err != nil {
		c.logger.WarnF("[Rehost] Failed to switch server: %v", err)
		if c.conn == nil || c.connLost {
			c.disconnectReason = "rehost failed"
			c.disconnect()
		}
		return
	}
	old := c.conn
	c.setServerAddress(address)
	c.attachConnection(conn)
	if old != nil {
		_ = old.Close()
	}
	c.rehostCount++
	if c.history != nil {
		c.history.Rehosts = c.rehostCount
	}
	c.logger.Debug("[Rehost] Successfully switched server")
}

// startSession 进入已连接状态时创建会话记录
func (c *Client) startSession() {
	s := c.settings()
	c.logger.InfoF("[FSD] Connected to %s (%s) as %s", s.server.Name, c.ServerInfo().Address, s.user.Callsign)
	if c.operations == nil || c.operations.HistoryOperation() == nil {
		return
	}
	c.history = c.operations.HistoryOperation().NewHistory(s.user.Cid, s.user.Callsign, s.server.Name, s.isObserver())
	if err := c.operations.HistoryOperation().SaveHistory(c.history); err != nil {
		c.logger.ErrorF("[FSD] Fail to create session history, %v", err)
	}
}

// finishSession 断开连接后保存统计, 结束会话记录并归档日志
func (c *Client) finishSession() {
	s := c.settings()
	reason := c.disconnectReason
	if reason == "" {
		reason = "disconnected"
	}
	c.logger.InfoF("[FSD] Disconnected from %s, reason: %s", s.server.Name, reason)

	files := make([]string, 0, 2)
	if path := c.rawTap.Path(); path != "" {
		files = append(files, path)
	}
	c.rawTap.Close()

	sessionId := ""
	if c.history != nil {
		sessionId = c.history.SessionId
	}
	if c.statistics.Enabled() {
		path, err := c.statistics.SaveToFile(s.statsDir, s.server.Name, time.Now())
		if err != nil {
			c.logger.ErrorF("[FSD] Fail to save network statistics, %v", err)
		} else if path != "" {
			c.logger.InfoF("[FSD] Network statistics saved to %s", path)
			files = append(files, path)
		}
		c.saveStatistics(sessionId, s)
		c.statistics.Reset()
	}

	if c.history != nil && c.operations != nil {
		if err := c.operations.HistoryOperation().EndRecordAndSaveHistory(c.history, reason); err != nil {
			c.logger.ErrorF("[FSD] Fail to save session history, %v", err)
		}
	}
	c.history = nil
	c.archive(files)
}

func (c *Client) saveStatistics(sessionId string, s settings) {
	if c.operations == nil || c.operations.StatisticsOperation() == nil {
		return
	}
	snapshot := c.statistics.Snapshot()
	if snapshot.TotalSent == 0 && snapshot.TotalReceived == 0 {
		return
	}
	statistic := &operation.NetworkStatistic{
		SessionId:     sessionId,
		Server:        s.server.Name,
		Callsign:      s.user.Callsign,
		TotalSent:     snapshot.TotalSent,
		TotalReceived: snapshot.TotalReceived,
		Summary:       snapshot.Summary,
	}
	if err := c.operations.StatisticsOperation().SaveStatistic(statistic); err != nil {
		c.logger.ErrorF("[FSD] Fail to save network statistics record, %v", err)
	}
}

func (c *Client) archive(files []string) {
	if c.archiver == nil || len(files) == 0 {
		return
	}
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := c.archiver.Archive(ctx, files); err != nil {
			c.logger.ErrorF("[FSD] Fail to archive %v, %v", files, err)
		}
	}()
}

func (c *Client) notify(subject string, body string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(subject, body); err != nil {
		c.logger.WarnF("[FSD] Fail to send notification, %v", err)
	}
}
