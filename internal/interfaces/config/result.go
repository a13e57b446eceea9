// Package config
package config

import "fmt"

// ValidResult 配置校验结果, err为nil表示通过
// originErr 保存导致失败的底层错误, 便于在日志中分开输出
type ValidResult struct {
	err       error
	originErr error
}

var validPass = &ValidResult{}

func ValidPass() *ValidResult { return validPass }

func ValidFail(err error) *ValidResult {
	return &ValidResult{err: err}
}

func ValidFailWith(err error, originErr error) *ValidResult {
	return &ValidResult{err: err, originErr: originErr}
}

// invalidField 字段校验失败, 错误信息中带上字段路径
func invalidField(field string, format string, v ...interface{}) *ValidResult {
	return ValidFail(fmt.Errorf("invalid field %s, %s", field, fmt.Sprintf(format, v...)))
}

func (r *ValidResult) IsFail() bool { return r.err != nil }

func (r *ValidResult) Error() error { return r.err }

func (r *ValidResult) OriginErr() error { return r.originErr }
