package utils

import "strconv"

// StrToInt 解析失败时返回默认值
func StrToInt(str string, defaultValue int) int {
	if result, err := strconv.Atoi(str); err == nil {
		return result
	}
	return defaultValue
}

func StrToFloat(str string, defaultValue float64) float64 {
	if result, err := strconv.ParseFloat(str, 64); err == nil {
		return result
	}
	return defaultValue
}

// StrToUint32 用于应答码与透传的标志位字段
func StrToUint32(str string, defaultValue uint32) uint32 {
	if result, err := strconv.ParseUint(str, 10, 32); err == nil {
		return uint32(result)
	}
	return defaultValue
}

// BoolToToken 协议中的布尔字段固定为0或1
func BoolToToken(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
