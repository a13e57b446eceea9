package database

import (
	"context"
	"errors"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type FlightPlanOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewFlightPlanOperation(db *gorm.DB, queryTimeout time.Duration) *FlightPlanOperation {
	return &FlightPlanOperation{db: db, queryTimeout: queryTimeout}
}

func (flightPlanOperation *FlightPlanOperation) GetFlightPlanByCallsign(callsign string) (flightPlan *FlightPlan, err error) {
	flightPlan = &FlightPlan{}
	ctx, cancel := context.WithTimeout(context.Background(), flightPlanOperation.queryTimeout)
	defer cancel()
	err = flightPlanOperation.db.WithContext(ctx).Where("callsign = ?", callsign).First(flightPlan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFlightPlanNotFound
	}
	return
}

func (flightPlanOperation *FlightPlanOperation) UpsertFlightPlan(flightPlan *FlightPlan) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), flightPlanOperation.queryTimeout)
	defer cancel()
	return flightPlanOperation.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "callsign"}},
		UpdateAll: true,
	}).Create(flightPlan).Error
}

func (flightPlanOperation *FlightPlanOperation) DeleteFlightPlan(callsign string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), flightPlanOperation.queryTimeout)
	defer cancel()
	result := flightPlanOperation.db.WithContext(ctx).Where("callsign = ?", callsign).Delete(&FlightPlan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFlightPlanNotFound
	}
	return nil
}
