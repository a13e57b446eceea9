package fsd_client

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"strings"
)

// textCodec 线路编码与内部UTF-8字符串之间的转换
type textCodec struct {
	name    string
	decoder *encoding.Decoder
	encoder *encoding.Encoder
}

func newTextCodec(name string) *textCodec {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return &textCodec{name: "utf-8"}
	default:
		return &textCodec{
			name:    "latin1",
			decoder: charmap.ISO8859_1.NewDecoder(),
			encoder: encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()),
		}
	}
}

func (c *textCodec) Name() string { return c.name }

func (c *textCodec) Decode(line []byte) string {
	if c.decoder == nil {
		return string(line)
	}
	decoded, err := c.decoder.Bytes(line)
	if err != nil {
		return string(line)
	}
	return string(decoded)
}

func (c *textCodec) Encode(line string) []byte {
	if c.encoder == nil {
		return []byte(line)
	}
	encoded, err := c.encoder.Bytes([]byte(line))
	if err != nil {
		return []byte(line)
	}
	return encoded
}
