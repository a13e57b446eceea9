// Package operation
package operation

type DatabaseOperations struct {
	historyOperation    HistoryOperationInterface
	statisticsOperation StatisticsOperationInterface
	flightPlanOperation FlightPlanOperationInterface
}

func NewDatabaseOperations(
	historyOperation HistoryOperationInterface,
	statisticsOperation StatisticsOperationInterface,
	flightPlanOperation FlightPlanOperationInterface,
) *DatabaseOperations {
	return &DatabaseOperations{
		historyOperation:    historyOperation,
		statisticsOperation: statisticsOperation,
		flightPlanOperation: flightPlanOperation,
	}
}

func (db *DatabaseOperations) HistoryOperation() HistoryOperationInterface {
	return db.historyOperation
}

func (db *DatabaseOperations) StatisticsOperation() StatisticsOperationInterface {
	return db.statisticsOperation
}

func (db *DatabaseOperations) FlightPlanOperation() FlightPlanOperationInterface {
	return db.flightPlanOperation
}
