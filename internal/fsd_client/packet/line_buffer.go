package packet

import "bytes"

// LineBuffer 接收缓冲区, 不完整的行保留到下一次写入
type LineBuffer struct {
	data  []byte
	start int
}

func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{data: make([]byte, 0, capacity)}
}

func (b *LineBuffer) Write(p []byte) (int, error) {
	// 已消费的部分超过一半时整体前移
	if b.start > 0 && b.start >= len(b.data)/2 {
		n := copy(b.data, b.data[b.start:])
		b.data = b.data[:n]
		b.start = 0
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// Next 取出下一整行, 去掉\n与可选的\r
func (b *LineBuffer) Next() (string, bool) {
	i := bytes.IndexByte(b.data[b.start:], '\n')
	if i < 0 {
		return "", false
	}
	line := b.data[b.start : b.start+i]
	b.start += i + 1
	return string(bytes.TrimSuffix(line, []byte{'\r'})), true
}

// HasLine 缓冲区中是否还有完整的行
func (b *LineBuffer) HasLine() bool {
	return bytes.IndexByte(b.data[b.start:], '\n') >= 0
}

// Pending 尚未取出的字节数, 包括完整的行与末尾不完整的行
func (b *LineBuffer) Pending() int { return len(b.data) - b.start }

func (b *LineBuffer) Reset() {
	b.data = b.data[:0]
	b.start = 0
}
