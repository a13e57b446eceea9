// Package database
package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

var ErrDatabaseDisabled = errors.New("database disabled")

type ShutdownCallback struct {
	db     *gorm.DB
	logger log.LoggerInterface
}

func NewShutdownCallback(db *gorm.DB, logger log.LoggerInterface) *ShutdownCallback {
	return &ShutdownCallback{db: db, logger: logger}
}

func (dc *ShutdownCallback) Invoke(_ context.Context) error {
	dc.logger.Info("Closing database connection")
	db, err := dc.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// ConnectDatabase 建立数据库连接并完成迁移, 数据库未启用时返回 ErrDatabaseDisabled
func ConnectDatabase(lg log.LoggerInterface, config *config.Config, debug bool) (*ShutdownCallback, *operation.DatabaseOperations, error) {
	if config.Database == nil || !config.Database.Enabled {
		return nil, nil, ErrDatabaseDisabled
	}
	connection := config.Database.GetConnection(lg)
	if connection == nil {
		return nil, nil, fmt.Errorf("unsupported database type %s", config.Database.Type)
	}
	return Open(lg, connection, config.Database, debug)
}

// Open 使用给定的方言打开数据库, 测试中直接传入内存sqlite
func Open(lg log.LoggerInterface, connection gorm.Dialector, dbConfig *config.DatabaseConfig, debug bool) (*ShutdownCallback, *operation.DatabaseOperations, error) {
	connectionConfig := gorm.Config{}
	connectionConfig.DefaultTransactionTimeout = 5 * time.Second
	connectionConfig.PrepareStmt = true

	if debug {
		connectionConfig.Logger = logger.Default.LogMode(logger.Error)
	} else {
		connectionConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(connection, &connectionConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while connecting to database: %v", err)
	}

	if err = db.Migrator().AutoMigrate(&operation.History{}, &operation.NetworkStatistic{}, &operation.FlightPlan{}); err != nil {
		return nil, nil, fmt.Errorf("error occured while migrating database: %v", err)
	}

	dbPool, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while creating database pool: %v", err)
	}

	maxOpenConnections := dbConfig.ServerMaxConnections * 4 / 5 // 不超过数据库最大连接的80%
	maxIdleConnections := maxOpenConnections / 5                // 空闲连接约为最大连接的20%
	if maxOpenConnections < 1 {
		maxOpenConnections = 1
	}
	if maxIdleConnections < 1 {
		maxIdleConnections = 1
	}

	dbPool.SetMaxIdleConns(maxIdleConnections)
	dbPool.SetMaxOpenConns(maxOpenConnections)
	dbPool.SetConnMaxLifetime(dbConfig.ConnectIdleDuration)

	if err = dbPool.Ping(); err != nil {
		return nil, nil, fmt.Errorf("error occured while pinging database: %v", err)
	}
	lg.Info("Database initialized and connection established")

	queryTimeout := dbConfig.QueryDuration
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	operations := operation.NewDatabaseOperations(
		NewHistoryOperation(db, queryTimeout),
		NewStatisticsOperation(db, queryTimeout),
		NewFlightPlanOperation(db, queryTimeout),
	)
	return NewShutdownCallback(db, lg), operations, nil
}
