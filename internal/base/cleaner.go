package base

import (
	"context"
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const loggerShutdownTimeout = 3 * time.Second

// Cleaner 按注册的相反顺序执行关闭回调, 收到SIGHUP时执行重载回调
type Cleaner struct {
	mu             sync.Mutex
	cleaners       []Callable
	reloaders      []func() error
	cleaning       bool
	cleanOnce      sync.Once
	loggerShutdown Callable
	logger         LoggerInterface
	exit           func(code int)
}

func NewCleaner(logger LoggerInterface) *Cleaner {
	return &Cleaner{
		cleaners:       make([]Callable, 0),
		loggerShutdown: logger.ShutdownCallback(),
		logger:         logger,
		exit:           func(code int) { syscall.Exit(code) },
	}
}

func (c *Cleaner) Add(callable Callable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cleaning {
		c.logger.DebugF("Cleaner is shutting down, ignoring %T", callable)
		return
	}
	c.cleaners = append(c.cleaners, callable)
	c.logger.DebugF("Adding cleaner #%d (%T)", len(c.cleaners), callable)
}

func (c *Cleaner) OnReload(reload func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloaders = append(c.reloaders, reload)
}

// invokeAll 返回所有回调错误的合并结果
func (c *Cleaner) invokeAll() error {
	c.mu.Lock()
	c.cleaning = true
	callbacks := make([]Callable, len(c.cleaners))
	copy(callbacks, c.cleaners)
	c.mu.Unlock()

	c.logger.DebugF("Starting cleanup of %d registered callbacks", len(callbacks))

	var errs []error
	utils.ReverseForEach(callbacks, func(idx int, callback Callable) {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		c.logger.DebugF("Invoking cleaner #%d (%T)", idx+1, callback)
		if err := callback.Invoke(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cleaner #%d (%T): %w", idx+1, callback, err))
		}
	})
	return errors.Join(errs...)
}

// Clean 只会执行一次, 结束后关闭日志并退出进程
func (c *Cleaner) Clean() {
	c.cleanOnce.Do(func() {
		if err := c.invokeAll(); err != nil {
			c.logger.ErrorF("Errors occurred during cleanup:\n%v", err)
		} else {
			c.logger.Debug("All cleaners executed successfully")
		}
		c.logger.Info("Cleanup finished, client offline")

		ctx, cancel := context.WithTimeout(context.Background(), loggerShutdownTimeout)
		defer cancel()
		if err := c.loggerShutdown.Invoke(ctx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "LOGGER SHUTDOWN ERROR: %v\n", err)
		}
		c.exit(0)
	})
}

func (c *Cleaner) reload() {
	c.mu.Lock()
	reloaders := make([]func() error, len(c.reloaders))
	copy(reloaders, c.reloaders)
	c.mu.Unlock()
	for _, reload := range reloaders {
		if err := reload(); err != nil {
			c.logger.ErrorF("Reload failed, keeping current configuration: %v", err)
		}
	}
}

func (c *Cleaner) Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-hangup:
				c.logger.Info("Received hangup signal, reloading configuration")
				c.reload()
			case <-ctx.Done():
				stop()
				signal.Stop(hangup)
				c.logger.Info("Received interrupt signal, shutting down")
				c.Clean()
				return
			}
		}
	}()
}

var _ interfaces.CleanerInterface = (*Cleaner)(nil)
