package database

import (
	"context"
	"github.com/google/uuid"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"gorm.io/gorm"
	"time"
)

type HistoryOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewHistoryOperation(db *gorm.DB, queryTimeout time.Duration) *HistoryOperation {
	return &HistoryOperation{db: db, queryTimeout: queryTimeout}
}

func (historyOperation *HistoryOperation) NewHistory(cid string, callsign string, server string, observer bool) (history *History) {
	now := time.Now()
	return &History{
		SessionId:  uuid.NewString(),
		Cid:        cid,
		Callsign:   callsign,
		Server:     server,
		IsObserver: observer,
		StartTime:  now,
		EndTime:    now,
		OnlineTime: 0,
	}
}

func (historyOperation *HistoryOperation) SaveHistory(history *History) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), historyOperation.queryTimeout)
	defer cancel()

	return historyOperation.db.WithContext(ctx).Save(history).Error
}

func (historyOperation *HistoryOperation) EndRecordAndSaveHistory(history *History, reason string) (err error) {
	history.EndTime = time.Now()
	history.OnlineTime = int(history.EndTime.Sub(history.StartTime).Seconds())
	history.EndReason = reason
	return historyOperation.SaveHistory(history)
}

func (historyOperation *HistoryOperation) GetRecentHistories(limit int) (histories []*History, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), historyOperation.queryTimeout)
	defer cancel()

	histories = make([]*History, 0, limit)
	err = historyOperation.db.WithContext(ctx).Order("start_time desc").Limit(limit).Find(&histories).Error
	return
}
