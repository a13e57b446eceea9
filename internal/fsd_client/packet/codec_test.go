package packet

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"strings"
	"testing"
)

func TestParseAtcRating(t *testing.T) {
	tests := []struct {
		token    string
		expected fsd.AtcRating
	}{
		{"1", fsd.AtcRatingObserver},
		{"5", fsd.AtcRatingController1},
		{"12", fsd.AtcRatingAdministrator},
		{"0", fsd.AtcRatingUnknown},
		{"13", fsd.AtcRatingUnknown},
		{"abc", fsd.AtcRatingUnknown},
		{"", fsd.AtcRatingUnknown},
	}

	codec := NewCodec(nil)
	pass := 0
	fail := 0
	for _, test := range tests {
		if result := codec.ParseAtcRating(test.token); result != test.expected {
			fail++
			t.Errorf("ParseAtcRating(%q) = %v; expected %v", test.token, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestParseAtcRating: %d pass, %d fail", pass, fail)
}

func TestUnknownTokenReportedOnce(t *testing.T) {
	codec := NewCodec(nil)
	codec.ParseAtcRating("99")
	codec.ParseAtcRating("99")
	codec.ParseSimType("77")
	if count := codec.Diagnostics().Count(); count != 2 {
		t.Errorf("diagnostics count = %d; expected 2", count)
	}
	if !codec.Diagnostics().Seen("ATC rating|99") {
		t.Errorf("unknown ATC rating was not recorded")
	}
	codec.Diagnostics().Reset()
	if codec.Diagnostics().Count() != 0 {
		t.Errorf("Reset did not clear diagnostics")
	}
}

func TestIgnoredQueryTokens(t *testing.T) {
	codec := NewCodec(nil)
	for _, token := range []string{"BY", "HI", "HLP", "NOHLP", "WH", "IT", "DR", "HT", "TA", "BC", "SC", "VT",
		"ESP", "NEWINFO", "NEWATIS", "EST", "GD"} {
		if result := codec.ParseClientQueryType(token); result != fsd.QueryUnknown {
			t.Errorf("ParseClientQueryType(%q) = %v; expected Unknown", token, result)
		}
		if !IsIgnoredQueryToken(token) {
			t.Errorf("%q should be ignored", token)
		}
	}
	if count := codec.Diagnostics().Count(); count != 0 {
		t.Errorf("ignored tokens should not be reported, got %d reports", count)
	}
	if codec.ParseClientQueryType("XYZZY"); codec.Diagnostics().Count() != 1 {
		t.Errorf("unknown query type should be reported")
	}
}

func TestClientQueryTypeRoundTrip(t *testing.T) {
	codec := NewCodec(nil)
	for _, queryType := range []fsd.ClientQueryType{fsd.QueryIsValidATC, fsd.QueryCapabilities, fsd.QueryCom1Freq,
		fsd.QueryRealName, fsd.QueryServer, fsd.QueryATIS, fsd.QueryPublicIpAddress, fsd.QueryINF, fsd.QueryFP,
		fsd.QueryAircraftConfig, fsd.QueryEuroscopeSimData} {
		token := FormatClientQueryType(queryType)
		if result := codec.ParseClientQueryType(token); result != queryType {
			t.Errorf("ParseClientQueryType(%q) = %v; expected %v", token, result, queryType)
		}
	}
}

func TestCapabilities(t *testing.T) {
	codec := NewCodec(nil)
	capabilities := fsd.CapabilityNone.With(fsd.CapabilityVisPos).With(fsd.CapabilityAtcInfo).With(fsd.CapabilityIcaoEquipment)
	formatted := strings.Join(FormatCapabilities(capabilities), ":")
	if formatted != "ATCINFO=1:VISUPDATE=1:ICAOEQ=1" {
		t.Errorf("FormatCapabilities = %q", formatted)
	}
	parsed := codec.ParseCapabilities([]string{"ATCINFO=1", "VISUPDATE=1", "ICAOEQ=1", "STEALTH=0", "BROKEN"})
	if parsed != capabilities {
		t.Errorf("ParseCapabilities = %b; expected %b", parsed, capabilities)
	}
}

func TestScalarTokens(t *testing.T) {
	codec := NewCodec(nil)
	if FormatSimType(fsd.SimTypeMSFS2024) != "0" || codec.ParseSimType("0") != fsd.SimTypeUnknown {
		t.Errorf("unnumbered simulators should map to 0")
	}
	if codec.Diagnostics().Count() != 0 {
		t.Errorf("sim type 0 should decode silently")
	}
	if FormatFacility(fsd.FacilityUnknown) != "" || codec.ParseFacility("6") != fsd.FacilityCenter {
		t.Errorf("facility mapping is wrong")
	}
	if FormatTransponderMode(fsd.TransponderIdent) != "Y" || codec.ParseTransponderMode("N") != fsd.TransponderModeC {
		t.Errorf("transponder mode mapping is wrong")
	}
	if codec.ParsePilotRating("") != fsd.PilotRatingUnknown || codec.ParsePilotRating("3") != fsd.PilotRatingIFR {
		t.Errorf("pilot rating mapping is wrong")
	}
	if codec.ParseServerErrorCode("017") != fsd.ServerErrorAuthTimeout || codec.ParseServerErrorCode("99") != fsd.ServerErrorUnknown {
		t.Errorf("server error code mapping is wrong")
	}
	if FormatAtcRating(fsd.AtcRatingUnknown) != "0" {
		t.Errorf("unknown ATC rating should format as 0")
	}
}
