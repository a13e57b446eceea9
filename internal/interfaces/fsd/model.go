// Package fsd
package fsd

import "time"

type AtcStation struct {
	Callsign    string       `json:"callsign"`
	Frequency   int          `json:"frequency"`
	Facility    FacilityType `json:"facility"`
	VisualRange int          `json:"visual_range"`
	Rating      AtcRating    `json:"rating"`
	Position    Position     `json:"position"`
	Elevation   int          `json:"elevation"`
	LastUpdate  time.Time    `json:"last_update"`
}

type FlightPlan struct {
	Callsign           string     `json:"callsign"`
	FlightType         FlightType `json:"flight_type"`
	AircraftType       string     `json:"aircraft_type"`
	TrueCruisingSpeed  int        `json:"true_cruising_speed"`
	DepartureAirport   string     `json:"departure_airport"`
	EstimatedDepTime   string     `json:"estimated_dep_time"`
	ActualDepTime      string     `json:"actual_dep_time"`
	CruiseAltitude     string     `json:"cruise_altitude"`
	DestinationAirport string     `json:"destination_airport"`
	HoursEnroute       int        `json:"hours_enroute"`
	MinutesEnroute     int        `json:"minutes_enroute"`
	FuelAvailHours     int        `json:"fuel_avail_hours"`
	FuelAvailMinutes   int        `json:"fuel_avail_minutes"`
	AlternateAirport   string     `json:"alternate_airport"`
	Remarks            string     `json:"remarks"`
	Route              string     `json:"route"`
}

type TextMessage struct {
	Sender      string    `json:"sender"`
	Receiver    string    `json:"receiver"`
	Message     string    `json:"message"`
	Frequencies []int     `json:"frequencies,omitempty"`
	Private     bool      `json:"private"`
	Supervisor  bool      `json:"supervisor"`
	Broadcast   bool      `json:"broadcast"`
	Received    time.Time `json:"received"`
}

type ServerInfo struct {
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Port        int        `json:"port"`
	ServerType  ServerType `json:"server_type"`
	Revision    int        `json:"revision"`
	Callsign    string     `json:"callsign"`
	LoginMode   LoginMode  `json:"login_mode"`
	ConnectedAt time.Time  `json:"connected_at"`
}
