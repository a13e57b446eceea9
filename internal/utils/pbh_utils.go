// Package utils
package utils

import "math"

const (
	pitchMultiplier   = 256.0 / 90.0
	bankMultiplier    = 512.0 / 180.0
	headingMultiplier = 1024.0 / 360.0
)

// PackPBH 将俯仰, 坡度, 航向与是否在地面打包为一个32位整数
// 网络上的俯仰与坡度符号与本地约定相反, 打包时乘以-1
func PackPBH(pitch, bank, heading float64, onGround bool) uint32 {
	pbh := uint32(0)

	if onGround {
		pbh |= 0b10
	}

	heading = NormalizeDegrees360(heading)
	hdgVal := uint32(math.Floor(heading*headingMultiplier)) & 0x3FF
	pbh |= hdgVal << 2

	bankVal := int(math.Floor(bank * -bankMultiplier))
	pbh |= (uint32(bankVal) & 0x3FF) << 12

	pitchVal := int(math.Floor(pitch * -pitchMultiplier))
	pbh |= (uint32(pitchVal) & 0x3FF) << 22

	return pbh
}

func UnpackPBH(pbh uint32) (pitch, bank, heading float64, onGround bool) {
	onGround = (pbh&0b10)>>1 == 1

	hdgBits := (pbh & 0xFFC) >> 2
	heading = NormalizeDegrees360(float64(hdgBits) * (360.0 / 1024.0))

	bankVal := int32((pbh&0x3FF000)<<10) >> 22
	bank = normalizeDegrees180(float64(bankVal) * (-180.0 / 512.0))

	pitchVal := int32(pbh&0xFFC00000) >> 22
	pitch = normalizeDegrees90(float64(pitchVal) * (-90.0 / 256.0))

	return
}

// NormalizeDegrees360 返回[0, 360)区间内的角度
func NormalizeDegrees360(degrees float64) float64 {
	result := math.Mod(degrees, 360)
	if result < 0 {
		result += 360
	}
	if result >= 360 {
		result = 0
	}
	return result
}

func normalizeDegrees180(degrees float64) float64 {
	result := NormalizeDegrees360(degrees + 180)
	return result - 180
}

func normalizeDegrees90(degrees float64) float64 {
	result := normalizeDegrees180(degrees)
	if result >= 90 {
		result = 180 - result
		if result >= 90 {
			result -= 180
		}
	} else if result < -90 {
		result = -180 - result
	}
	return result
}
