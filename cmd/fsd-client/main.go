package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/google/uuid"
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/database"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client"
	"github.com/half-nothing/simple-fsd-client/internal/http_server"
	"github.com/half-nothing/simple-fsd-client/internal/http_server/service/store"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/notify"
)

func recoverFromError() {
	if r := recover(); r != nil {
		fmt.Printf("It looks like there are some serious errors, the details are as follows: %v", r)
	}
}

func main() {
	flag.Parse()

	defer recoverFromError()

	logger := base.NewLogger()
	logger.Init(*global.DebugMode)

	logger.InfoF("Application initializing, version %s", global.AppVersion)

	cleaner := base.NewCleaner(logger)
	cleaner.Init()
	defer cleaner.Clean()

	configManager := base.NewManager(logger)
	config := configManager.Config()
	cleaner.OnReload(configManager.Reload)

	// 首次运行时生成并保存系统标识
	if config.Client.Identity.SystemUid == "" {
		config.Client.Identity.SystemUid = uuid.NewString()
		if err := configManager.SaveConfig(); err != nil {
			logger.WarnF("Fail to save generated system uid, %v", err)
		}
	}

	shutdownCallback, databaseOperation, err := database.ConnectDatabase(logger, config, *global.DebugMode)
	switch {
	case errors.Is(err, database.ErrDatabaseDisabled):
		logger.Info("Database disabled, session history will not be recorded")
	case err != nil:
		logger.FatalF("Error occurred while initializing database, details: %v", err)
		return
	default:
		cleaner.Add(shutdownCallback)
	}

	applicationContent := interfaces.NewApplicationContent(configManager, cleaner, logger, databaseOperation)

	options := fsd_client.ClientOptions{Operations: databaseOperation}

	archiver, err := store.NewArchiver(logger, config.HttpServer.Store)
	if err != nil {
		logger.FatalF("Error occurred while initializing archive store, details: %v", err)
		return
	}
	if archiver != nil {
		options.Archiver = archiver
	}

	if notifier := notify.NewNotifier(logger, config.Notify); notifier != nil {
		options.Notifier = notifier
		cleaner.Add(notifier)
	}

	client := fsd_client.NewClient(logger, config.Client, options)
	cleaner.Add(fsd_client.NewShutdownCallback(client))

	client.Subscribe(func(event fsd.Event) {
		if changed, ok := event.(fsd.ConnectionStatusChanged); ok {
			logger.InfoF("Connection status changed: %s -> %s", changed.Old, changed.New)
		}
	})

	if config.HttpServer.Enabled {
		go http_server.StartHttpServer(applicationContent, client)
	}

	if *global.NoConnect {
		logger.Info("Automatic connect skipped, waiting for http api")
	} else {
		client.Connect()
	}

	select {}
}
