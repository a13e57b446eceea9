// Package controller
package controller

import (
	"github.com/gorilla/websocket"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/labstack/echo/v4"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	streamBufferSize = 256
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = pongWait * 9 / 10
)

type rawLine struct {
	Line string `json:"line"`
	Time int64  `json:"time"`
}

// StreamController 通过websocket推送原始FSD报文
type StreamController struct {
	logger   log.LoggerInterface
	client   fsd.ClientInterface
	upgrader websocket.Upgrader
	dropped  atomic.Int64
}

func NewStreamController(logger log.LoggerInterface, client fsd.ClientInterface) *StreamController {
	return &StreamController{
		logger: logger,
		client: client,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

func (controller *StreamController) Dropped() int64 {
	return controller.dropped.Load()
}

func (controller *StreamController) RawMessages(ctx echo.Context) error {
	conn, err := controller.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		controller.logger.WarnF("StreamController.RawMessages upgrade error: %v", err)
		return nil
	}
	defer func(conn *websocket.Conn) {
		_ = conn.Close()
	}(conn)

	lines := make(chan rawLine, streamBufferSize)
	// 监听在客户端工作协程中执行, 缓冲区满时丢弃
	unsubscribe := controller.client.Subscribe(func(event fsd.Event) {
		raw, ok := event.(fsd.RawFsdMessage)
		if !ok {
			return
		}
		select {
		case lines <- rawLine{Line: raw.Line, Time: time.Now().UnixMilli()}:
		default:
			controller.dropped.Add(1)
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	remote := ctx.RealIP()
	controller.logger.InfoF("Raw message stream opened by %s", remote)
	for {
		select {
		case <-closed:
			controller.logger.InfoF("Raw message stream closed by %s", remote)
			return nil
		case line := <-lines:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(line); err != nil {
				controller.logger.DebugF("StreamController.RawMessages write error: %v", err)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
