// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"strings"
	"time"
)

var (
	ConfVersion, _ = newVersion(global.ConfigVersion)
	AppVersion, _  = newVersion(global.AppVersion)
)

func checkPort(port uint) *ValidResult {
	if port <= 0 {
		return ValidFail(errors.New("port must be greater than zero"))
	}
	if port > 65535 {
		return ValidFail(errors.New("port must be less than 65535"))
	}
	return ValidPass()
}

// parseDuration 解析时长字段, 并要求结果为正
func parseDuration(field string, value string) (time.Duration, *ValidResult) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, ValidFailWith(fmt.Errorf("invalid field %s", field), err)
	}
	if duration <= 0 {
		return 0, invalidField(field, "duration must be positive, got %s", value)
	}
	return duration, ValidPass()
}

// Version 语义化版本号, 配置文件只要求主版本与次版本一致
type Version struct {
	major int
	minor int
	patch int
	raw   string
}

func newVersion(version string) (*Version, error) {
	parts := strings.Split(strings.TrimPrefix(version, "v"), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid version string %q", version)
	}
	numbers := make([]int, len(parts))
	for i, part := range parts {
		numbers[i] = utils.StrToInt(part, -1)
		if numbers[i] < 0 {
			return nil, fmt.Errorf("invalid version string %q", version)
		}
	}
	return &Version{major: numbers[0], minor: numbers[1], patch: numbers[2], raw: version}, nil
}

// Compatible 补丁版本不同的配置文件仍然可以使用
func (v *Version) Compatible(other *Version) bool {
	return other != nil && v.major == other.major && v.minor == other.minor
}

func (v *Version) Major() int { return v.major }

func (v *Version) Minor() int { return v.minor }

func (v *Version) String() string { return v.raw }
