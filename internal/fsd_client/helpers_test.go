package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTimingEstimator(t *testing.T) {
	estimator := NewTimingEstimator(0)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DefaultPositionOffsetMs, estimator.ReceivedPositionFix("CES123", start))
	assert.Equal(t, DefaultPositionOffsetMs, estimator.CurrentOffset("CES123"))

	// 5秒一次的常规报告
	current := start
	for i := 0; i < 3; i++ {
		current = current.Add(5 * time.Second)
		assert.Equal(t, DefaultPositionOffsetMs, estimator.ReceivedPositionFix("CES123", current))
	}
	assert.Equal(t, int64(5000), estimator.CurrentOffset("CES123"))

	// 最近三次间隔的平均值低于2秒后切换到短偏移
	current = current.Add(200 * time.Millisecond)
	assert.Equal(t, DefaultPositionOffsetMs, estimator.ReceivedPositionFix("CES123", current), "average of last three still above threshold")
	current = current.Add(200 * time.Millisecond)
	assert.Equal(t, InterimPositionOffsetMs, estimator.ReceivedPositionFix("CES123", current))

	estimator.SetAdditionalOffset(500)
	current = current.Add(200 * time.Millisecond)
	assert.Equal(t, InterimPositionOffsetMs+500, estimator.ReceivedPositionFix("CES123", current))

	estimator.Clear("CES123")
	assert.Equal(t, DefaultPositionOffsetMs, estimator.CurrentOffset("CES123"))
}

func TestSendQueueBatchSize(t *testing.T) {
	testCases := []struct {
		size     int
		expected int
	}{
		{0, 0},
		{1, 1},
		{5, 1},
		{6, 2},
		{11, 3},
		{21, 4},
		{31, 5},
		{51, 15},
		{76, 25},
		{101, 35},
	}

	queue := newSendQueue(base.NewDiscardLogger())
	pass, fail := 0, 0
	for _, tc := range testCases {
		if got := queue.batchSize(tc.size); got != tc.expected {
			fail++
			t.Errorf("batchSize(%d) = %d; expected %d", tc.size, got, tc.expected)
		} else {
			pass++
		}
	}
	t.Logf("batchSize: %d passed, %d failed", pass, fail)
}

func TestSendQueueTickOrder(t *testing.T) {
	queue := newSendQueue(base.NewDiscardLogger())
	for i := 0; i < 7; i++ {
		queue.Push(strings.Repeat("x", i+1))
	}
	first := queue.Tick()
	require.Len(t, first, 2)
	assert.Equal(t, "x", first[0])
	assert.Equal(t, "xx", first[1])
	assert.Equal(t, 5, queue.Len())

	second := queue.Tick()
	require.Len(t, second, 1)
	assert.Equal(t, "xxx", second[0])

	queue.Clear()
	assert.Nil(t, queue.Tick())
}

func TestFixAtcRange(t *testing.T) {
	testCases := []struct {
		callsign string
		reported int
		expected int
	}{
		{"ZSSS_ATIS", 50, 150},
		{"ZSSS_GND", 5, 10},
		{"ZSSS_TWR", 30, 30},
		{"ZSSS_TWR", 10, 25},
		{"ZSSS_DEP", 100, 150},
		{"ZSSS_APP", 0, 150},
		{"ZSHA_CTR", 200, 300},
		{"ZSHA_FSS", 300, 1500},
		{"ZSSS_DEL", 5, 5},
		{"ZSSS_OBS", -5, 0},
		{"eddf_twr", 0, 25},
		{"EDDF_N_APP", 80, 150},
		{"EDDF_ATIS2", 0, 150},
		{"TWR", 5, 5},
		{"TWR_OBS", 5, 5},
	}

	pass, fail := 0, 0
	for _, tc := range testCases {
		if got := FixAtcRange(tc.callsign, tc.reported); got != tc.expected {
			fail++
			t.Errorf("FixAtcRange(%s, %d) = %d; expected %d", tc.callsign, tc.reported, got, tc.expected)
		} else {
			pass++
		}
	}
	t.Logf("FixAtcRange: %d passed, %d failed", pass, fail)
}

func TestRoundToChannelSpacing(t *testing.T) {
	testCases := []struct {
		input    int
		expected int
	}{
		{122800, 122800},
		{118005, 118008},
		{121500, 121500},
		{132830, 132833},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RoundToChannelSpacing(tc.input), "RoundToChannelSpacing(%d)", tc.input)
	}
}

func TestAtcTableSnapFrequency(t *testing.T) {
	table := newAtcTable()
	table.Upsert(fsd.AtcStation{Callsign: "ZSSS_APP", Frequency: 120300, Position: fsd.Position{Latitude: 31.2, Longitude: 121.3}})
	table.Upsert(fsd.AtcStation{Callsign: "ZBAA_APP", Frequency: 120305, Position: fsd.Position{Latitude: 40.1, Longitude: 116.6}})

	own := fsd.Position{Latitude: 31.0, Longitude: 121.0}
	assert.Equal(t, 120300, table.SnapFrequency(120302, own))
	own = fsd.Position{Latitude: 40.0, Longitude: 116.5}
	assert.Equal(t, 120305, table.SnapFrequency(120302, own))
	assert.Equal(t, 127000, table.SnapFrequency(127000, own))

	snapshot := table.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "ZBAA_APP", snapshot[0].Callsign)

	table.Remove("ZBAA_APP")
	assert.Equal(t, 1, table.Len())
}

func TestAtisPendingQuery(t *testing.T) {
	registry := newAtisRegistry()
	now := time.Now()
	registry.AddPendingQuery("ZSSS_ATIS", now)
	require.True(t, registry.HasPendingQuery("ZSSS_ATIS"))

	assert.Equal(t, atisIncomplete, registry.HandlePendingLine("ZSSS_ATIS", "INFO A", now).outcome)
	assert.Equal(t, atisIncomplete, registry.HandlePendingLine("ZSSS_ATIS", "RWY 35L", now).outcome)
	result := registry.HandlePendingLine("ZSSS_ATIS", "1830z", now)
	assert.Equal(t, atisCompleted, result.outcome)
	assert.Equal(t, "1830z", result.zulu)
	assert.Equal(t, []string{"INFO A", "RWY 35L", "1830z"}, result.lines)
	assert.False(t, registry.HasPendingQuery("ZSSS_ATIS"))

	registry.AddPendingQuery("ZSPD_ATIS", now)
	result = registry.HandlePendingLine("ZSPD_ATIS", "late line", now.Add(6*time.Second))
	assert.Equal(t, atisTimedOut, result.outcome)
	assert.Equal(t, []string{"late line"}, result.lines)
}

func TestAtisUpdateMap(t *testing.T) {
	registry := newAtisRegistry()
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineVoiceRoom, "voice.example.org/zsss_atis")
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineText, "INFORMATION B")
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineText, "z1")
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineText, "   ")
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineText, " QNH 1013 ")
	registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineZuluLogoff, "2200z")

	result := registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineCount, "4")
	assert.Equal(t, atisCompleted, result.outcome)
	assert.Equal(t, "2200z", result.zulu)
	assert.Equal(t, []string{"INFORMATION B", "QNH 1013"}, result.lines)

	assert.Equal(t, atisIncomplete, registry.UpdateMap("ZSSS_ATIS", fsd.AtisLineCount, "0").outcome)
}

func TestClientStatistics(t *testing.T) {
	statistics := NewClientStatistics(true)
	statistics.CountReceived("PilotDataUpdate")
	statistics.CountReceived("PilotDataUpdate")
	statistics.CountSent("TextMessage")
	assert.Equal(t, 1, statistics.Increase("sendTextMessages", "PM"))
	assert.Equal(t, -1, statistics.Increase("", "PM"))

	sent, received := statistics.Totals()
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, received)

	snapshot := statistics.Snapshot()
	assert.Equal(t, 2, snapshot.Counts["parseMessage.PilotDataUpdate"])
	assert.Equal(t, 1, snapshot.Counts["sendTextMessages.PM"])
	assert.True(t, strings.HasPrefix(snapshot.Summary, "parseMessage.PilotDataUpdate: 2"))

	dir := t.TempDir()
	path, err := statistics.SaveToFile(dir, "fsd.example.org:6809", time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "networkstatistics_250203040506_fsd.example.org_6809.log"), path)

	statistics.Reset()
	path, err = statistics.SaveToFile(dir, "server", time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)

	disabled := NewClientStatistics(false)
	assert.Equal(t, -1, disabled.Increase("sendTextMessages", ""))
}

func TestRawTapPasswordFilter(t *testing.T) {
	dir := t.TempDir()
	var emitted []string
	tap := newRawTap(base.NewDiscardLogger(), &config.RawLogConfig{
		Mode:      config.RawLogTruncate,
		Directory: dir,
		Emit:      true,
	}, func(line string) { emitted = append(emitted, line) })
	require.NoError(t, tap.Open(time.Now()))

	tap.ArmPasswordFilter()
	tap.Sent("#APCES123:SERVER:1234567:secret:1:101:1:Test Pilot\r\n")
	tap.Sent("#APCES123:SERVER:1234567:secret:1:101:1:Test Pilot")
	tap.Received("#DISERVER:CLIENT:VATSIM FSD V3.43:abcdef")
	path := tap.Path()
	tap.Close()

	require.Len(t, emitted, 3)
	assert.Equal(t, "FSD Sent=>#APCES123:SERVER:1234567:<password>:1:101:1:Test Pilot", emitted[0])
	assert.Contains(t, emitted[1], ":secret:", "filter only applies to the next login")
	assert.Equal(t, "FSD Recv=>#DISERVER:CLIENT:VATSIM FSD V3.43:abcdef", emitted[2])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(content), "\n"))
	assert.Contains(t, string(content), "<password>")
}

func TestIncrementalObject(t *testing.T) {
	previous := map[string]any{
		"lights": map[string]any{"strobe_on": false, "landing_on": true},
		"gear_down": true,
		"flaps_pct": 0.0,
	}
	current := map[string]any{
		"lights": map[string]any{"strobe_on": true, "landing_on": true},
		"gear_down": true,
		"flaps_pct": 25.0,
		"on_ground": false,
	}

	diff := IncrementalObject(previous, current)
	assert.Equal(t, map[string]any{
		"lights":    map[string]any{"strobe_on": true},
		"flaps_pct": 25.0,
		"on_ground": false,
	}, diff)

	assert.Equal(t, current, ApplyIncrementalObject(previous, diff))
	assert.Empty(t, IncrementalObject(current, current))
}

func TestEncodeAircraftConfig(t *testing.T) {
	body, err := encodeAircraftConfig(map[string]any{"livery": "中国"})
	require.NoError(t, err)
	assert.Equal(t, `{"config":{"livery":"\u4e2d\u56fd"}}`, body)

	decoded, err := decodeAircraftConfig(`{"config":{"gear_down":true}}`)
	require.NoError(t, err)
	assert.Equal(t, true, decoded.Config["gear_down"])

	decoded, err = decodeAircraftConfig(aircraftConfigRequest)
	require.NoError(t, err)
	assert.Equal(t, "full", decoded.Request)
}

func TestTextCodec(t *testing.T) {
	latin := newTextCodec("latin1")
	assert.Equal(t, "Grüezi", latin.Decode([]byte{'G', 'r', 0xfc, 'e', 'z', 'i'}))
	assert.Equal(t, []byte{'G', 'r', 0xfc, 'e', 'z', 'i'}, latin.Encode("Grüezi"))

	utf8 := newTextCodec("UTF-8")
	assert.Equal(t, "utf-8", utf8.Name())
	assert.Equal(t, "你好", utf8.Decode([]byte("你好")))
}

func TestTextConsolidator(t *testing.T) {
	var flushed [][]fsd.TextMessage
	consolidator := newTextConsolidator(func(task func()) bool { task(); return true }, func(messages []fsd.TextMessage) {
		flushed = append(flushed, messages)
	})

	consolidator.Add(fsd.TextMessage{Sender: "ZSSS_APP", Receiver: "CES123", Message: "line 1"})
	consolidator.Add(fsd.TextMessage{Sender: "ZSSS_APP", Receiver: "CES123", Message: "line 2"})
	consolidator.Add(fsd.TextMessage{Sender: "ZSPD_TWR", Receiver: "CES123", Message: "other"})
	assert.Equal(t, 2, consolidator.Len())

	consolidator.Add(fsd.TextMessage{Sender: "SUP", Receiver: "*S", Message: "urgent", Supervisor: true})
	require.Len(t, flushed, 1)
	assert.Equal(t, "urgent", flushed[0][0].Message)

	consolidator.Flush()
	require.Len(t, flushed, 2)
	require.Len(t, flushed[1], 2)
	assert.Equal(t, "line 1\nline 2", flushed[1][0].Message)

	for i := 0; i < consolidateMaxInputs; i++ {
		consolidator.Add(fsd.TextMessage{Sender: "ZSSS_APP", Receiver: "CES123", Message: "spam"})
	}
	require.Len(t, flushed, 3)
	assert.Equal(t, 0, consolidator.Len())
}
