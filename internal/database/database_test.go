package database

import (
	"context"
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"testing"
	"time"
)

func openTestDatabase(t *testing.T) *operation.DatabaseOperations {
	t.Helper()
	dbConfig := &config.DatabaseConfig{
		ServerMaxConnections: 1,
		ConnectIdleDuration:  time.Hour,
		QueryDuration:        time.Second,
	}
	callback, operations, err := Open(base.NewDiscardLogger(), sqlite.Open(":memory:"), dbConfig, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = callback.Invoke(context.Background()) })
	return operations
}

func TestHistoryOperation(t *testing.T) {
	operations := openTestDatabase(t)
	historyOperation := operations.HistoryOperation()

	history := historyOperation.NewHistory("1234567", "ABCD", "fsd.example.org:6809", false)
	require.NotEmpty(t, history.SessionId)
	require.NoError(t, historyOperation.SaveHistory(history))

	history.StartTime = history.StartTime.Add(-90 * time.Second)
	history.Rehosts = 1
	require.NoError(t, historyOperation.EndRecordAndSaveHistory(history, "kill request"))
	assert.GreaterOrEqual(t, history.OnlineTime, 90)

	second := historyOperation.NewHistory("1234567", "ABCD_OBS", "fsd.example.org:6809", true)
	require.NoError(t, historyOperation.SaveHistory(second))

	histories, err := historyOperation.GetRecentHistories(10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, "ABCD_OBS", histories[0].Callsign)
	assert.Equal(t, "kill request", histories[1].EndReason)
	assert.Equal(t, 1, histories[1].Rehosts)
}

func TestStatisticsOperation(t *testing.T) {
	operations := openTestDatabase(t)
	statisticsOperation := operations.StatisticsOperation()

	require.NoError(t, statisticsOperation.SaveStatistic(&operation.NetworkStatistic{
		SessionId:     "session",
		Server:        "fsd.example.org",
		Callsign:      "ABCD",
		TotalSent:     12,
		TotalReceived: 40,
		Summary:       "sendPilotDataUpdate: 12",
	}))

	statistics, err := statisticsOperation.GetStatisticsBySession("session")
	require.NoError(t, err)
	require.Len(t, statistics, 1)
	assert.Equal(t, 40, statistics[0].TotalReceived)

	statistics, err = statisticsOperation.GetStatisticsBySession("missing")
	require.NoError(t, err)
	assert.Empty(t, statistics)
}

func TestFlightPlanOperation(t *testing.T) {
	operations := openTestDatabase(t)
	flightPlanOperation := operations.FlightPlanOperation()

	_, err := flightPlanOperation.GetFlightPlanByCallsign("ABCD")
	assert.ErrorIs(t, err, operation.ErrFlightPlanNotFound)

	plan := &operation.FlightPlan{
		Callsign:         "ABCD",
		FlightType:       "I",
		AircraftType:     "B744",
		Tas:              420,
		DepartureAirport: "EGLL",
		DepartureTime:    "1530",
		CruiseAltitude:   "FL350",
		ArrivalAirport:   "KORD",
		AlternateAirport: "NONE",
		Route:            "EGLL.KORD",
	}
	require.NoError(t, flightPlanOperation.UpsertFlightPlan(plan))

	updated := *plan
	updated.ID = 0
	updated.CruiseAltitude = "FL370"
	require.NoError(t, flightPlanOperation.UpsertFlightPlan(&updated))

	stored, err := flightPlanOperation.GetFlightPlanByCallsign("ABCD")
	require.NoError(t, err)
	assert.Equal(t, "FL370", stored.CruiseAltitude)

	require.NoError(t, flightPlanOperation.DeleteFlightPlan("ABCD"))
	assert.ErrorIs(t, flightPlanOperation.DeleteFlightPlan("ABCD"), operation.ErrFlightPlanNotFound)
}
