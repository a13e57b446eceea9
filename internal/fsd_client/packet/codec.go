package packet

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// Diagnostics 记录已经报告过的未知字段, 每个key只输出一次日志
type Diagnostics struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	logger log.LoggerInterface
}

func newDiagnostics(logger log.LoggerInterface) *Diagnostics {
	return &Diagnostics{
		mu:     sync.Mutex{},
		seen:   make(map[string]struct{}),
		logger: logger,
	}
}

// Report 首次出现的key会输出一条警告并返回true
func (d *Diagnostics) Report(key string, format string, v ...interface{}) bool {
	d.mu.Lock()
	if _, ok := d.seen[key]; ok {
		d.mu.Unlock()
		return false
	}
	d.seen[key] = struct{}{}
	d.mu.Unlock()
	if d.logger != nil {
		d.logger.WarnF(format, v...)
	} else {
		slog.Warn(fmt.Sprintf(format, v...))
	}
	return true
}

func (d *Diagnostics) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[key]
	return ok
}

func (d *Diagnostics) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *Diagnostics) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.seen)
}

// Codec 负责枚举值与线路字段之间的转换, 解码永远不会panic
type Codec struct {
	diagnostics *Diagnostics
}

func NewCodec(logger log.LoggerInterface) *Codec {
	return &Codec{diagnostics: newDiagnostics(logger)}
}

var (
	defaultCodec     *Codec
	defaultCodecOnce sync.Once
)

// DefaultCodec 进程级共享的Codec, 日志输出到slog默认logger
func DefaultCodec() *Codec {
	defaultCodecOnce.Do(func() {
		defaultCodec = NewCodec(nil)
	})
	return defaultCodec
}

func (c *Codec) Diagnostics() *Diagnostics { return c.diagnostics }

func (c *Codec) unknown(enum string, token string) {
	c.diagnostics.Report(enum+"|"+token, "[Codec] FSD unknown %s '%s'", enum, token)
}

func FormatAtcRating(rating fsd.AtcRating) string {
	if rating <= fsd.AtcRatingUnknown || rating > fsd.AtcRatingAdministrator {
		return "0"
	}
	return strconv.Itoa(rating.Index())
}

func (c *Codec) ParseAtcRating(token string) fsd.AtcRating {
	if token == "" {
		return fsd.AtcRatingUnknown
	}
	value, err := strconv.Atoi(token)
	if err != nil || value < int(fsd.AtcRatingObserver) || value > int(fsd.AtcRatingAdministrator) {
		c.unknown("ATC rating", token)
		return fsd.AtcRatingUnknown
	}
	return fsd.AtcRating(value)
}

func FormatPilotRating(rating fsd.PilotRating) string {
	if rating < fsd.PilotRatingUnknown || rating > fsd.PilotRatingSupervisor {
		return "0"
	}
	return strconv.Itoa(rating.Index())
}

func (c *Codec) ParsePilotRating(token string) fsd.PilotRating {
	if token == "" || token == "0" {
		return fsd.PilotRatingUnknown
	}
	value, err := strconv.Atoi(token)
	if err != nil || value < int(fsd.PilotRatingStudent) || value > int(fsd.PilotRatingSupervisor) {
		c.unknown("pilot rating", token)
		return fsd.PilotRatingUnknown
	}
	return fsd.PilotRating(value)
}

var simTypeTokens = map[fsd.SimType]string{
	fsd.SimTypeMSFS95:     "1",
	fsd.SimTypeMSFS98:     "2",
	fsd.SimTypeMSCFS:      "3",
	fsd.SimTypeMSFS2000:   "4",
	fsd.SimTypeMSCFS2:     "5",
	fsd.SimTypeMSFS2002:   "6",
	fsd.SimTypeMSCFS3:     "7",
	fsd.SimTypeMSFS2004:   "8",
	fsd.SimTypeMSFSX:      "9",
	fsd.SimTypeXPlane8:    "12",
	fsd.SimTypeXPlane9:    "13",
	fsd.SimTypeXPlane10:   "14",
	fsd.SimTypeXPlane11:   "16",
	fsd.SimTypeFlightGear: "25",
	fsd.SimTypeP3Dv1:      "30",
	fsd.SimTypeP3Dv2:      "30",
	fsd.SimTypeP3Dv3:      "30",
	fsd.SimTypeP3Dv4:      "30",
}

// 同一个字段可能对应多个模拟器, 解码时取固定的一个
var tokenSimTypes = map[string]fsd.SimType{
	"1":  fsd.SimTypeMSFS95,
	"2":  fsd.SimTypeMSFS98,
	"3":  fsd.SimTypeMSCFS,
	"4":  fsd.SimTypeMSFS2000,
	"5":  fsd.SimTypeMSCFS2,
	"6":  fsd.SimTypeMSFS2002,
	"7":  fsd.SimTypeMSCFS3,
	"8":  fsd.SimTypeMSFS2004,
	"9":  fsd.SimTypeMSFSX,
	"12": fsd.SimTypeXPlane8,
	"13": fsd.SimTypeXPlane9,
	"14": fsd.SimTypeXPlane10,
	"16": fsd.SimTypeXPlane11,
	"25": fsd.SimTypeFlightGear,
	"30": fsd.SimTypeP3Dv4,
}

// FormatSimType 没有分配编号的模拟器一律发送0
func FormatSimType(simType fsd.SimType) string {
	if token, ok := simTypeTokens[simType]; ok {
		return token
	}
	return "0"
}

func (c *Codec) ParseSimType(token string) fsd.SimType {
	if token == "" || token == "0" {
		return fsd.SimTypeUnknown
	}
	if simType, ok := tokenSimTypes[token]; ok {
		return simType
	}
	c.unknown("SimType", token)
	return fsd.SimTypeUnknown
}

func FormatFacility(facility fsd.FacilityType) string {
	if facility < fsd.FacilityObserver || facility >= fsd.FacilityUnknown {
		return ""
	}
	return strconv.Itoa(int(facility))
}

func (c *Codec) ParseFacility(token string) fsd.FacilityType {
	if token == "" {
		return fsd.FacilityUnknown
	}
	value, err := strconv.Atoi(token)
	if err != nil || value < int(fsd.FacilityObserver) || value >= int(fsd.FacilityUnknown) {
		c.unknown("facility type", token)
		return fsd.FacilityUnknown
	}
	return fsd.FacilityType(value)
}

var queryTypeTokens = map[fsd.ClientQueryType]string{
	fsd.QueryIsValidATC:       "ATC",
	fsd.QueryCapabilities:     "CAPS",
	fsd.QueryCom1Freq:         "C?",
	fsd.QueryRealName:         "RN",
	fsd.QueryServer:           "SV",
	fsd.QueryATIS:             "ATIS",
	fsd.QueryPublicIpAddress:  "IP",
	fsd.QueryINF:              "INF",
	fsd.QueryFP:               "FP",
	fsd.QueryAircraftConfig:   "ACC",
	fsd.QueryEuroscopeSimData: "SIMDATA",
}

var tokenQueryTypes = func() map[string]fsd.ClientQueryType {
	result := make(map[string]fsd.ClientQueryType, len(queryTypeTokens))
	for queryType, token := range queryTypeTokens {
		result[token] = queryType
	}
	return result
}()

// ignoredQueryTokens 管制员之间的协调报文, 客户端不处理也不报告
var ignoredQueryTokens = map[string]struct{}{
	"BC": {}, "BY": {}, "DI": {}, "DP": {}, "DR": {}, "FA": {}, "HC": {}, "HI": {}, "HT": {}, "ID": {},
	"IH": {}, "IT": {}, "PT": {}, "SC": {}, "ST": {}, "TA": {}, "VT": {}, "VER": {}, "WH": {}, "HLP": {},
	"NOHLP": {}, "NEWATIS": {}, "NEWINFO": {}, "EST": {}, "GD": {}, "ESP": {},
}

func FormatClientQueryType(queryType fsd.ClientQueryType) string {
	return queryTypeTokens[queryType]
}

func (c *Codec) ParseClientQueryType(token string) fsd.ClientQueryType {
	if token == "" {
		return fsd.QueryUnknown
	}
	if queryType, ok := tokenQueryTypes[token]; ok {
		return queryType
	}
	if _, ok := ignoredQueryTokens[token]; ok {
		return fsd.QueryUnknown
	}
	c.unknown("ClientQueryType", token)
	return fsd.QueryUnknown
}

// IsIgnoredQueryToken 已知但刻意忽略的查询类型
func IsIgnoredQueryToken(token string) bool {
	_, ok := ignoredQueryTokens[token]
	return ok
}

var capabilityTokens = map[fsd.Capabilities]string{
	fsd.CapabilityAtcInfo:        "ATCINFO",
	fsd.CapabilitySecondaryPos:   "SECPOS",
	fsd.CapabilityAircraftInfo:   "MODELDESC",
	fsd.CapabilityOngoingCoord:   "ONGOINGCOORD",
	fsd.CapabilityInterimPos:     "INTERIMPOS",
	fsd.CapabilityFastPos:        "FASTPOS",
	fsd.CapabilityVisPos:         "VISUPDATE",
	fsd.CapabilityStealth:        "STEALTH",
	fsd.CapabilityAircraftConfig: "ACCONFIG",
	fsd.CapabilityIcaoEquipment:  "ICAOEQ",
}

var tokenCapabilities = func() map[string]fsd.Capabilities {
	result := make(map[string]fsd.Capabilities, len(capabilityTokens))
	for capability, token := range capabilityTokens {
		result[token] = capability
	}
	return result
}()

func FormatCapability(capability fsd.Capabilities) string {
	return capabilityTokens[capability]
}

func (c *Codec) ParseCapability(token string) fsd.Capabilities {
	if capability, ok := tokenCapabilities[token]; ok {
		return capability
	}
	if token != "" {
		c.unknown("capability", token)
	}
	return fsd.CapabilityNone
}

// FormatCapabilities 按标准顺序输出KEY=1列表
func FormatCapabilities(capabilities fsd.Capabilities) []string {
	result := make([]string, 0, len(fsd.AllCapabilities))
	for _, capability := range fsd.AllCapabilities {
		if capabilities.Has(capability) {
			result = append(result, FormatCapability(capability)+"=1")
		}
	}
	return result
}

// ParseCapabilities 解析KEY=1形式的能力列表, 值不为1的键被忽略
func (c *Codec) ParseCapabilities(tokens []string) fsd.Capabilities {
	capabilities := fsd.CapabilityNone
	for _, token := range tokens {
		key, value, found := strings.Cut(token, "=")
		if !found || value != "1" {
			continue
		}
		capabilities = capabilities.With(c.ParseCapability(key))
	}
	return capabilities
}

func FormatTransponderMode(mode fsd.TransponderMode) string {
	switch mode {
	case fsd.TransponderModeC:
		return "N"
	case fsd.TransponderIdent:
		return "Y"
	default:
		return "S"
	}
}

func (c *Codec) ParseTransponderMode(token string) fsd.TransponderMode {
	switch token {
	case "S":
		return fsd.TransponderStandby
	case "N":
		return fsd.TransponderModeC
	case "Y":
		return fsd.TransponderIdent
	case "":
		return fsd.TransponderStandby
	default:
		c.unknown("transponder mode", token)
		return fsd.TransponderStandby
	}
}

func (c *Codec) ParseAtisLineType(token string) fsd.AtisLineType {
	switch token {
	case "V":
		return fsd.AtisLineVoiceRoom
	case "Z":
		return fsd.AtisLineZuluLogoff
	case "T":
		return fsd.AtisLineText
	case "E":
		return fsd.AtisLineCount
	default:
		c.unknown("ATIS line type", token)
		return fsd.AtisLineUnknown
	}
}

func FormatFlightType(flightType fsd.FlightType) string {
	switch flightType {
	case fsd.FlightTypeVFR:
		return "V"
	case fsd.FlightTypeSVFR:
		return "S"
	case fsd.FlightTypeDVFR:
		return "D"
	default:
		return "I"
	}
}

func (c *Codec) ParseFlightType(token string) fsd.FlightType {
	switch token {
	case "I":
		return fsd.FlightTypeIFR
	case "V":
		return fsd.FlightTypeVFR
	case "S":
		return fsd.FlightTypeSVFR
	case "D":
		return fsd.FlightTypeDVFR
	case "":
		return fsd.FlightTypeIFR
	default:
		c.unknown("flight type", token)
		return fsd.FlightTypeIFR
	}
}

func FormatServerErrorCode(code fsd.ServerErrorCode) string {
	return strconv.Itoa(code.Index())
}

// ParseServerErrorCode 兼容"009"这种补零写法
func (c *Codec) ParseServerErrorCode(token string) fsd.ServerErrorCode {
	value, err := strconv.Atoi(token)
	if err != nil || value < int(fsd.ServerErrorNone) || value >= int(fsd.ServerErrorUnknown) {
		c.unknown("server error code", token)
		return fsd.ServerErrorUnknown
	}
	return fsd.ServerErrorCode(value)
}
