// Package operation
package operation

// HistoryOperationInterface 会话记录操作接口定义
type HistoryOperationInterface interface {
	// NewHistory 创建新会话记录(不提交数据库)
	NewHistory(cid string, callsign string, server string, observer bool) (history *History)
	// SaveHistory 保存会话记录到数据库, 当err为nil时保存成功
	SaveHistory(history *History) (err error)
	// EndRecordAndSaveHistory 结束会话记录并保存到数据库, 当err为nil时保存成功
	EndRecordAndSaveHistory(history *History, reason string) (err error)
	// GetRecentHistories 获取最近limit条会话记录, 当err为nil时返回值histories有效
	GetRecentHistories(limit int) (histories []*History, err error)
}

// StatisticsOperationInterface 网络统计操作接口定义
type StatisticsOperationInterface interface {
	// SaveStatistic 保存一次会话的报文统计, 当err为nil时保存成功
	SaveStatistic(statistic *NetworkStatistic) (err error)
	// GetStatisticsBySession 获取指定会话的统计, 当err为nil时返回值statistics有效
	GetStatisticsBySession(sessionId string) (statistics []*NetworkStatistic, err error)
}
