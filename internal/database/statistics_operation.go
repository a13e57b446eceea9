package database

import (
	"context"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"gorm.io/gorm"
	"time"
)

type StatisticsOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewStatisticsOperation(db *gorm.DB, queryTimeout time.Duration) *StatisticsOperation {
	return &StatisticsOperation{db: db, queryTimeout: queryTimeout}
}

func (statisticsOperation *StatisticsOperation) SaveStatistic(statistic *NetworkStatistic) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), statisticsOperation.queryTimeout)
	defer cancel()

	return statisticsOperation.db.WithContext(ctx).Create(statistic).Error
}

func (statisticsOperation *StatisticsOperation) GetStatisticsBySession(sessionId string) (statistics []*NetworkStatistic, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), statisticsOperation.queryTimeout)
	defer cancel()

	statistics = make([]*NetworkStatistic, 0)
	err = statisticsOperation.db.WithContext(ctx).Where("session_id = ?", sessionId).Order("id").Find(&statistics).Error
	return
}
