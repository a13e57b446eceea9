package fsd_client

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const isFullDataKey = "is_full_data"

// aircraftConfigRequest 请求对方发送完整部件数据的报文体
const aircraftConfigRequest = `{"request":"full"}`

// IncrementalObject 返回current相对previous发生变化的字段, 嵌套对象递归比较
func IncrementalObject(previous map[string]any, current map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range current {
		old, ok := previous[key]
		if !ok {
			result[key] = value
			continue
		}
		if reflect.DeepEqual(old, value) {
			continue
		}
		oldObject, oldIsObject := old.(map[string]any)
		newObject, newIsObject := value.(map[string]any)
		if oldIsObject && newIsObject {
			result[key] = IncrementalObject(oldObject, newObject)
			continue
		}
		result[key] = value
	}
	return result
}

// ApplyIncrementalObject 将增量合并到previous的副本上
func ApplyIncrementalObject(previous map[string]any, incremental map[string]any) map[string]any {
	result := make(map[string]any, len(previous)+len(incremental))
	for key, value := range previous {
		result[key] = value
	}
	for key, value := range incremental {
		newObject, newIsObject := value.(map[string]any)
		oldObject, oldIsObject := result[key].(map[string]any)
		if newIsObject && oldIsObject {
			result[key] = ApplyIncrementalObject(oldObject, newObject)
			continue
		}
		result[key] = value
	}
	return result
}

func copyParts(parts map[string]any) map[string]any {
	if parts == nil {
		return nil
	}
	return ApplyIncrementalObject(nil, parts)
}

// encodeAircraftConfig 生成 {"config":...} 报文体, 非ASCII字符以\u转义
func encodeAircraftConfig(config map[string]any) (string, error) {
	data, err := json.Marshal(map[string]any{"config": config})
	if err != nil {
		return "", fmt.Errorf("failed to encode aircraft config: %w", err)
	}
	return escapeNonAscii(string(data)), nil
}

func escapeNonAscii(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if r < 0x80 {
			builder.WriteRune(r)
			continue
		}
		if r > 0xffff {
			// 超出BMP的字符使用代理对
			r -= 0x10000
			_, _ = fmt.Fprintf(&builder, "\\u%04x\\u%04x", 0xd800+(r>>10), 0xdc00+(r&0x3ff))
			continue
		}
		_, _ = fmt.Fprintf(&builder, "\\u%04x", r)
	}
	return builder.String()
}

type aircraftConfigPacket struct {
	Request string         `json:"request,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

func decodeAircraftConfig(body string) (*aircraftConfigPacket, error) {
	packet := &aircraftConfigPacket{}
	if err := json.Unmarshal([]byte(body), packet); err != nil {
		return nil, err
	}
	return packet, nil
}
