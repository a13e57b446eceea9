package packet

import (
	"errors"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"math"
	"strings"
	"testing"
)

func testAircraft() *fsd.OwnAircraft {
	return &fsd.OwnAircraft{
		Position:         fsd.Position{Latitude: 43.12578, Longitude: -72.15841},
		AltitudeTrue:     12000,
		PressureAltitude: 12008,
		GroundSpeed:      125,
		Pitch:            -2,
		Bank:             3,
		Heading:          280,
		OnGround:         true,
		Transponder:      7000,
		TransponderMode:  fsd.TransponderModeC,
	}
}

func testVisualAircraft() *fsd.OwnAircraft {
	return &fsd.OwnAircraft{
		Position:     fsd.Position{Latitude: 43.1257891, Longitude: -72.1584142},
		AltitudeTrue: 12000.12,
		AltitudeAgl:  1404,
		Pitch:        -2,
		Bank:         3,
		Heading:      280,
		Velocity: fsd.Velocity{
			Longitudinal: -1.0001,
			Altitude:     2.0001,
			Latitudinal:  3.0001,
			PitchRate:    -0.0349,
			HeadingRate:  0.0175,
			BankRate:     0.0524,
		},
	}
}

func decodeLine(t *testing.T, codec *Codec, line string) Message {
	t.Helper()
	kind, payload, ok := LookupPrefix(line)
	if !ok {
		t.Fatalf("LookupPrefix(%q) found no kind", line)
	}
	tokens := strings.Split(payload, Separator)
	if kind == KindPilotClientCom {
		kind = PilotClientComKind(tokens)
	}
	message, err := FromTokens(kind, tokens, codec)
	if err != nil {
		t.Fatalf("FromTokens(%s) = %v", kind, err)
	}
	return message
}

func TestSerialize(t *testing.T) {
	interim := NewInterimPilotDataUpdate("ABCD", "", testAircraft())
	interim.AltitudeTrue = 12008
	interim.GroundSpeed = 400
	interim.SetReceiver("XYZ")

	visualAircraft := testVisualAircraft()
	visual := NewVisualPilotDataUpdate("ABCD", visualAircraft)

	tests := []struct {
		name     string
		message  Message
		expected string
	}{
		{"AtcDataUpdate", NewAtcDataUpdate("ABCD", 128200, fsd.FacilityApproach, 145, fsd.AtcRatingController1, 48.11028, 8.56972, 100),
			"%ABCD:28200:5:145:5:48.11028:8.56972:100"},
		{"AddAtc", NewAddAtc("ABCD", "Jon Doe", "1234567", "1234567", fsd.AtcRatingStudent3, 100),
			"#AAABCD:SERVER:Jon Doe:1234567:1234567:4:100"},
		{"AddPilot", NewAddPilot("ABCD", "1234567", "1234567", fsd.PilotRatingStudent, 100, fsd.SimTypeMSFS95, "Jon Doe"),
			"#APABCD:SERVER:1234567:1234567:1:100:1:Jon Doe"},
		{"AuthChallenge", NewAuthChallenge("ABCD", "SERVER", "7a57f2dd9d360d347b"), "$ZCABCD:SERVER:7a57f2dd9d360d347b"},
		{"AuthResponse", NewAuthResponse("ABCD", "SERVER", "7a57f2dd9d360d347b"), "$ZRABCD:SERVER:7a57f2dd9d360d347b"},
		{"ClientIdentification", NewClientIdentification("ABCD", 0xe410, "Client", 1, 5, "1234567", "1108540872", "29bbc8b1398eb38e0139"),
			"$IDABCD:SERVER:e410:Client:1:5:1234567:1108540872:29bbc8b1398eb38e0139"},
		{"ClientResponse", NewClientResponse("ABCD", "SERVER", fsd.QueryCapabilities, "MODELDESC=1", "ATCINFO=1"),
			"$CRABCD:SERVER:CAPS:MODELDESC=1:ATCINFO=1"},
		{"DeleteAtc", NewDeleteAtc("ABCD", "1234567"), "#DAABCD:1234567"},
		{"DeletePilot", NewDeletePilot("ABCD", "1234567"), "#DPABCD:1234567"},
		{"FlightPlan", NewFlightPlan("ABCD", "SERVER", &fsd.FlightPlan{
			FlightType:         fsd.FlightTypeVFR,
			AircraftType:       "B744",
			TrueCruisingSpeed:  420,
			DepartureAirport:   "EGLL",
			EstimatedDepTime:   "1530",
			ActualDepTime:      "1535",
			CruiseAltitude:     "FL350",
			DestinationAirport: "KORD",
			HoursEnroute:       8,
			MinutesEnroute:     15,
			FuelAvailHours:     9,
			FuelAvailMinutes:   30,
			AlternateAirport:   "NONE",
			Remarks:            "Unit: Test",
			Route:              "EGLL.KORD",
		}), "$FPABCD:SERVER:V:B744:420:EGLL:1530:1535:FL350:KORD:8:15:9:30:NONE:Unit Test:EGLL.KORD"},
		{"InterimPilotDataUpdate", interim, "#SBABCD:XYZ:VI:43.12578:-72.15841:12008:400:25132146"},
		{"KillRequest", NewKillRequest("SUP", "ABCD", "I don't like you!"), "$!!SUP:ABCD:I don't like you!"},
		{"PilotDataUpdate", NewPilotDataUpdateFromOwnAircraft("ABCD", fsd.PilotRatingStudent, testAircraft()),
			"@N:ABCD:7000:1:43.12578:-72.15841:12000:125:25132146:8"},
		{"VisualPilotDataUpdate", visual,
			"^ABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:-1.0001:2.0001:3.0001:-0.0349:0.0175:0.0524:0.00"},
		{"VisualPilotDataPeriodic", visual.ToPeriodic(),
			"#SLABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:-1.0001:2.0001:3.0001:-0.0349:0.0175:0.0524:0.00"},
		{"VisualPilotDataStopped", visual.ToStopped(), "#STABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:0.00"},
		{"VisualPilotDataToggle", NewVisualPilotDataToggle("SERVER", "ABCD", true), "$SFSERVER:ABCD:1"},
		{"Ping", NewPing("ABCD", "SERVER", "85275222"), "$PIABCD:SERVER:85275222"},
		{"Pong", NewPong("ABCD", "SERVER", "85275222"), "$POABCD:SERVER:85275222"},
		{"PlaneInfoRequest", NewPlaneInfoRequest("ABCD", "XYZ"), "#SBABCD:XYZ:PIR"},
		{"PlaneInformation", NewPlaneInformation("ABCD", "XYZ", "B744", "BAW", "UNION"),
			"#SBABCD:XYZ:PI:GEN:EQUIPMENT=B744:AIRLINE=BAW:LIVERY=UNION"},
		{"PlaneInformationShort", NewPlaneInformation("ABCD", "XYZ", "B744", "", ""), "#SBABCD:XYZ:PI:GEN:EQUIPMENT=B744"},
		{"PlaneInfoRequestFsinn", NewPlaneInfoRequestFsinn("ABCD", "XYZ", "DLH", "A320", "L2J", "FLIGHTFACTOR A320 LUFTHANSA D-AIPC"),
			"#SBABCD:XYZ:FSIPIR:0:DLH:A320:::::L2J:FLIGHTFACTOR A320 LUFTHANSA D-AIPC"},
		{"PlaneInformationFsinn", NewPlaneInformationFsinn("ABCD", "XYZ", "DLH", "A320", "L2J", "FLIGHTFACTOR A320 LUFTHANSA D-AIPC"),
			"#SBABCD:XYZ:FSIPI:0:DLH:A320:::::L2J:FLIGHTFACTOR A320 LUFTHANSA D-AIPC"},
		{"ServerError", NewServerError("SERVER", "ABCD", fsd.ServerErrorNoWeatherProfile, "EGLL", "No such weather profile"),
			"$ERSERVER:ABCD:9:EGLL:No such weather profile"},
		{"TextMessage", NewTextMessage("ABCD", "XYZ", "hello"), "#TMABCD:XYZ:hello"},
		{"RadioTextMessage", NewRadioTextMessage("ABCD", []int{122800, 118000}, "hello"), "#TMABCD:@22800&@18000:hello"},
		{"Rehost", NewRehost("SERVER", "ABCD", "fsd.example.org"), "$XXSERVER:ABCD:fsd.example.org"},
		{"Mute", NewMute("SERVER", "ABCD", false), "#MUSERVER:ABCD:0"},
		{"RevBClientParts", NewRevBClientParts("ABCD", "*", "1:2:3"), "-MDABCD:*:1:2:3"},
	}

	pass := 0
	fail := 0
	for _, test := range tests {
		line, err := Serialize(test.message)
		if err != nil {
			fail++
			t.Errorf("%s: Serialize returned error %v", test.name, err)
			continue
		}
		if line != test.expected+LineEnd {
			fail++
			t.Errorf("%s: Serialize = %q; expected %q", test.name, line, test.expected+LineEnd)
			continue
		}
		pass++
	}
	t.Logf("TestSerialize: %d pass, %d fail", pass, fail)
}

func TestSerializeRejectsInvalid(t *testing.T) {
	codec := NewCodec(nil)
	message, err := FromTokens(KindAddPilot, []string{"ABCD", "SERVER"}, codec)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("FromTokens with short tokens returned %v; expected ErrInvalidMessage", err)
	}
	if message == nil || message.IsValid() {
		t.Fatalf("short AddPilot should decode to an invalid value, got %+v", message)
	}
	if _, err := Serialize(message); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("Serialize(invalid) returned %v; expected ErrInvalidMessage", err)
	}
	if !codec.Diagnostics().Seen("tokens|AddPilot") {
		t.Errorf("short token list was not reported")
	}
	_, _ = FromTokens(KindAddPilot, []string{"ABCD"}, codec)
	if count := codec.Diagnostics().Count(); count != 1 {
		t.Errorf("diagnostics count = %d; expected 1", count)
	}
	if _, err := Serialize(&PilotDataUpdate{}); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("zero value message should not serialize")
	}
}

func TestDecodePilotDataUpdate(t *testing.T) {
	codec := NewCodec(nil)
	message := decodeLine(t, codec, "@N:ABCD:7000:1:43.12578:-72.15841:12000:125:25132146:8")
	update, ok := message.(*PilotDataUpdate)
	if !ok {
		t.Fatalf("decoded %T; expected *PilotDataUpdate", message)
	}
	if update.Sender != "ABCD" || update.Transponder != 7000 || update.TransponderMode != fsd.TransponderModeC {
		t.Errorf("unexpected transponder fields: %+v", update)
	}
	if update.Rating != fsd.PilotRatingStudent {
		t.Errorf("rating = %v; expected Student", update.Rating)
	}
	if update.PressureAltitude != 12008 || update.AltitudeTrue != 12000 {
		t.Errorf("altitude = %f/%f; expected 12000/12008", update.AltitudeTrue, update.PressureAltitude)
	}
	if !update.OnGround || math.Abs(update.Heading-280) > 0.5 {
		t.Errorf("pbh decoded to heading %f onGround %v", update.Heading, update.OnGround)
	}

	message = decodeLine(t, codec, "@N:ABCD:7890:1:43.12578:-72.15841:12000:125:25132146:8")
	update = message.(*PilotDataUpdate)
	if update.Transponder != 2000 || update.TransponderMode != fsd.TransponderStandby {
		t.Errorf("invalid squawk decoded to %d/%v; expected 2000/Standby", update.Transponder, update.TransponderMode)
	}
}

func TestDecodeMessages(t *testing.T) {
	codec := NewCodec(nil)

	serverError := decodeLine(t, codec, "$ERSERVER:ABCD:009:EGLL:No such weather profile").(*ServerError)
	if serverError.Code != fsd.ServerErrorNoWeatherProfile || serverError.IsFatal() {
		t.Errorf("server error decoded to %v", serverError.Code)
	}
	if serverError.CausingParameter != "EGLL" || serverError.Description != "No such weather profile" {
		t.Errorf("server error fields: %+v", serverError)
	}

	fatal := decodeLine(t, codec, "$ERSERVER:ABCD:1::Callsign in use").(*ServerError)
	if !fatal.IsFatal() {
		t.Errorf("callsign in use should be fatal")
	}

	atc := decodeLine(t, codec, "%ABCD:28200:5:145:5:48.11028:8.56972:100").(*AtcDataUpdate)
	if atc.FrequencyKHz != 128200 || atc.Facility != fsd.FacilityApproach || atc.Rating != fsd.AtcRatingController1 {
		t.Errorf("atc data update fields: %+v", atc)
	}

	identification := decodeLine(t, codec, "$IDABCD:SERVER:e410:Client:1:5:1234567:1108540872:29bbc8b1398eb38e0139").(*ClientIdentification)
	if identification.ClientId != 0xe410 || identification.InitialChallenge != "29bbc8b1398eb38e0139" {
		t.Errorf("client identification fields: %+v", identification)
	}

	deletePilot := decodeLine(t, codec, "#DPABCD").(*DeletePilot)
	if deletePilot.Sender != "ABCD" || deletePilot.Cid != "" {
		t.Errorf("delete pilot fields: %+v", deletePilot)
	}

	response := decodeLine(t, codec, "$CRABCD:SERVER:CAPS:MODELDESC=1:ATCINFO=1").(*ClientResponse)
	caps := codec.ParseCapabilities(response.Payload)
	if response.QueryType != fsd.QueryCapabilities || !caps.Has(fsd.CapabilityAircraftInfo) || !caps.Has(fsd.CapabilityAtcInfo) {
		t.Errorf("client response decoded to %v with capabilities %b", response.QueryType, caps)
	}

	fsinn := decodeLine(t, codec, "#SBABCD:XYZ:FSIPIR:0:DLH:A320:::::L2J:FLIGHTFACTOR A320 LUFTHANSA D-AIPC").(*PlaneInfoRequestFsinn)
	if fsinn.AirlineIcao != "DLH" || fsinn.AircraftIcao != "A320" || fsinn.AircraftCombinedType != "L2J" ||
		fsinn.ModelString != "FLIGHTFACTOR A320 LUFTHANSA D-AIPC" {
		t.Errorf("fsinn fields: %+v", fsinn)
	}

	information := decodeLine(t, codec, "#SBABCD:XYZ:PI:GEN:EQUIPMENT=B744:AIRLINE=BAW").(*PlaneInformation)
	if information.AircraftType != "B744" || information.Airline != "BAW" || information.Livery != "" {
		t.Errorf("plane information fields: %+v", information)
	}

	stopped := decodeLine(t, codec, "#STABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:0.00").(*VisualPilotDataUpdate)
	if stopped.Kind() != KindVisualPilotDataStopped || stopped.AltitudeAgl != 1404 {
		t.Errorf("stopped visual update: %+v", stopped)
	}
}

func TestDecodeEuroscopeSimData(t *testing.T) {
	codec := NewCodec(nil)
	message := decodeLine(t, codec, "SIMDATA:ABCD:A320:DLH:0:43.1257800:-72.1584100:12000:180.00:10:-10:250:0:0:50:0:0.0:0")
	data, ok := message.(*EuroscopeSimData)
	if !ok {
		t.Fatalf("decoded %T; expected *EuroscopeSimData", message)
	}
	if data.Sender != "ABCD" || data.Model != "A320" || data.Airline != "DLH" || data.Altitude != 12000 {
		t.Errorf("sim data fields: %+v", data)
	}
	if data.Pitch != -10 || data.Bank != 10 {
		t.Errorf("message must keep wire signs, got pitch %d bank %d", data.Pitch, data.Bank)
	}
	situation := data.Situation()
	if situation.Pitch != 10 || situation.Bank != -10 {
		t.Errorf("situation should negate pitch and bank, got %f/%f", situation.Pitch, situation.Bank)
	}
	if data.Parts().ThrustPercent != 50 || data.Parts().GearDown {
		t.Errorf("parts: %+v", data.Parts())
	}

	data.Altitude = 12000
	line, err := Serialize(data)
	if err != nil {
		t.Fatal(err)
	}
	if expected := "SIMDATA:ABCD:A320:DLH:0:43.1257800:-72.1584100:12000.0:180.00:10:-10:250:0:0:50:0:0.0:0\r\n"; line != expected {
		t.Errorf("Serialize = %q; expected %q", line, expected)
	}
}

func TestTextMessageClassification(t *testing.T) {
	tests := []struct {
		line        string
		message     string
		radio       bool
		broadcast   bool
		private     bool
		supervisor  bool
		frequencies []int
	}{
		{"#TMABCD:@22800&@18000:hello: world", "hello: world", true, false, false, false, []int{122800, 118000}},
		{"#TMABCD:*:hello", "hello", false, true, false, false, nil},
		{"#TMABCD:*S:help", "help", false, true, false, true, nil},
		{"#TMEDDM_SUP:XYZ:watch out", "watch out", false, false, true, true, nil},
		{"#TMABCD:XYZ:hi", "hi", false, false, true, false, nil},
	}

	codec := NewCodec(nil)
	pass := 0
	fail := 0
	for _, test := range tests {
		message := decodeLine(t, codec, test.line).(*TextMessage)
		frequencies := message.Frequencies()
		sameFrequencies := len(frequencies) == len(test.frequencies)
		for i := 0; sameFrequencies && i < len(frequencies); i++ {
			sameFrequencies = frequencies[i] == test.frequencies[i]
		}
		if message.Message != test.message || message.IsRadioMessage() != test.radio ||
			message.IsBroadcast() != test.broadcast || message.IsPrivate() != test.private ||
			message.IsSupervisor() != test.supervisor || !sameFrequencies {
			fail++
			t.Errorf("%q classified as radio=%v broadcast=%v private=%v supervisor=%v frequencies=%v",
				test.line, message.IsRadioMessage(), message.IsBroadcast(), message.IsPrivate(), message.IsSupervisor(), frequencies)
			continue
		}
		pass++
	}
	t.Logf("TestTextMessageClassification: %d pass, %d fail", pass, fail)
}

func TestFlightPlanToModel(t *testing.T) {
	codec := NewCodec(nil)
	plan := decodeLine(t, codec, "$FPABCD:SERVER:I:B744:420:EGLL:930:0:35000:KORD:8:15:9:30:NONE:Unit Test:EGLL.KORD").(*FlightPlan)
	model := plan.ToModel()
	if model.EstimatedDepTime != "0930" || model.ActualDepTime != "0000" {
		t.Errorf("departure times %s/%s; expected 0930/0000", model.EstimatedDepTime, model.ActualDepTime)
	}
	if model.CruiseAltitude != "FL350" || model.Callsign != "ABCD" || model.Route != "EGLL.KORD" {
		t.Errorf("flight plan model: %+v", model)
	}
}

func TestNormalizeCruiseAltitude(t *testing.T) {
	tests := []struct {
		flightType fsd.FlightType
		input      string
		expected   string
	}{
		{fsd.FlightTypeIFR, "35000", "FL350"},
		{fsd.FlightTypeIFR, "350", "FL350"},
		{fsd.FlightTypeIFR, "FL350", "FL350"},
		{fsd.FlightTypeVFR, "4500", "4500ft"},
		{fsd.FlightTypeVFR, "8500", "FL85"},
		{fsd.FlightTypeVFR, "A045", "A045"},
		{fsd.FlightTypeIFR, "", ""},
	}

	pass := 0
	fail := 0
	for _, test := range tests {
		if result := NormalizeCruiseAltitude(test.flightType, test.input); result != test.expected {
			fail++
			t.Errorf("NormalizeCruiseAltitude(%v, %q) = %q; expected %q", test.flightType, test.input, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestNormalizeCruiseAltitude: %d pass, %d fail", pass, fail)
}

func TestLookupPrefix(t *testing.T) {
	tests := []struct {
		line    string
		kind    MessageKind
		payload string
		ok      bool
	}{
		{"SIMDATA:ABCD:A320", KindEuroscopeSimData, ":ABCD:A320", true},
		{"#SBABCD:XYZ:PIR", KindPilotClientCom, "ABCD:XYZ:PIR", true},
		{"#SLABCD:1", KindVisualPilotDataPeriodic, "ABCD:1", true},
		{"$!!SUP:ABCD:bye", KindKillRequest, "SUP:ABCD:bye", true},
		{"@N:ABCD", KindPilotDataUpdate, "N:ABCD", true},
		{"-MDABCD:*:1", KindRevBClientParts, "ABCD:*:1", true},
		{"garbage", KindUnknown, "", false},
	}

	pass := 0
	fail := 0
	for _, test := range tests {
		kind, payload, ok := LookupPrefix(test.line)
		if kind != test.kind || payload != test.payload || ok != test.ok {
			fail++
			t.Errorf("LookupPrefix(%q) = %v, %q, %v; expected %v, %q, %v", test.line, kind, payload, ok, test.kind, test.payload, test.ok)
			continue
		}
		pass++
	}
	t.Logf("TestLookupPrefix: %d pass, %d fail", pass, fail)

	for i := 1; i < len(MessageTypeTable); i++ {
		if len(MessageTypeTable[i-1].prefix) < len(MessageTypeTable[i].prefix) {
			t.Errorf("MessageTypeTable is not ordered by prefix length at %d", i)
		}
	}
	if PrefixOf(KindPlaneInformationFsinn) != "#SB" || PrefixOf(KindFlightPlan) != "$FP" {
		t.Errorf("PrefixOf returned wrong prefix")
	}
	if kind := PilotClientComKind([]string{"ABCD", "XYZ", "FOO"}); kind != KindPilotClientCom {
		t.Errorf("unknown #SB opcode mapped to %v", kind)
	}
}
