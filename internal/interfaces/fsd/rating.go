// Package fsd
package fsd

type RatingModel struct {
	Id        int    `json:"id"`
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
}

// AtcRating 管制员等级, 线上编号从1开始
type AtcRating int

const (
	AtcRatingUnknown AtcRating = iota
	AtcRatingObserver
	AtcRatingStudent
	AtcRatingStudent2
	AtcRatingStudent3
	AtcRatingController1
	AtcRatingController2
	AtcRatingController3
	AtcRatingInstructor1
	AtcRatingInstructor2
	AtcRatingInstructor3
	AtcRatingSupervisor
	AtcRatingAdministrator
)

var AtcRatings = []RatingModel{
	{0, "UNK", "Unknown"},
	{1, "OBS", "Observer"},
	{2, "S1", "Tower Trainee"},
	{3, "S2", "Tower Controller"},
	{4, "S3", "Senior Student"},
	{5, "C1", "Enroute Controller"},
	{6, "C2", "Controller 2 (not in use)"},
	{7, "C3", "Senior Controller"},
	{8, "I1", "Instructor"},
	{9, "I2", "Instructor 2 (not in use)"},
	{10, "I3", "Senior Instructor"},
	{11, "SUP", "Supervisor"},
	{12, "ADM", "Administrator"},
}

func (r AtcRating) String() string {
	if r < 0 || int(r) >= len(AtcRatings) {
		return AtcRatings[0].ShortName
	}
	return AtcRatings[r].ShortName
}

func (r AtcRating) Index() int {
	return int(r)
}

type PilotRating int

const (
	PilotRatingUnknown PilotRating = iota
	PilotRatingStudent
	PilotRatingVFR
	PilotRatingIFR
	PilotRatingInstructor
	PilotRatingSupervisor
)

var PilotRatings = []RatingModel{
	{0, "UNK", "Unknown"},
	{1, "P0", "Student"},
	{2, "VFR", "VFR Pilot"},
	{3, "IFR", "IFR Pilot"},
	{4, "INS", "Instructor"},
	{5, "SUP", "Supervisor"},
}

func (r PilotRating) String() string {
	if r < 0 || int(r) >= len(PilotRatings) {
		return PilotRatings[0].ShortName
	}
	return PilotRatings[r].ShortName
}

func (r PilotRating) Index() int {
	return int(r)
}
