package packet

import (
	"strings"
	"testing"
)

func drainLines(buffer *LineBuffer) []string {
	var lines []string
	for {
		line, ok := buffer.Next()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestLineBuffer(t *testing.T) {
	buffer := NewLineBuffer(16)
	_, _ = buffer.Write([]byte("#TMA:B:hi\r\n$PIA:B:1"))
	if !buffer.HasLine() {
		t.Fatalf("HasLine = false; expected a complete line")
	}
	lines := drainLines(buffer)
	if len(lines) != 1 || lines[0] != "#TMA:B:hi" {
		t.Fatalf("lines = %q; expected one complete line", lines)
	}
	if buffer.HasLine() {
		t.Errorf("partial line reported as complete")
	}
	if buffer.Pending() != len("$PIA:B:1") {
		t.Errorf("Pending = %d", buffer.Pending())
	}
	_, _ = buffer.Write([]byte("23\n#DPABCD\r\n"))
	lines = drainLines(buffer)
	if strings.Join(lines, ",") != "$PIA:B:123,#DPABCD" {
		t.Errorf("lines = %q", lines)
	}
	if buffer.Pending() != 0 {
		t.Errorf("buffer should be drained, %d bytes pending", buffer.Pending())
	}
	buffer.Reset()
	if _, ok := buffer.Next(); ok {
		t.Errorf("Reset buffer returned a line")
	}
}

func TestLineBufferCompaction(t *testing.T) {
	buffer := NewLineBuffer(8)
	pass, fail := 0, 0
	for i := 0; i < 100; i++ {
		_, _ = buffer.Write([]byte("$PIA:B:1\n$PI"))
		expected := "$PI$PIA:B:1"
		if i == 0 {
			expected = "$PIA:B:1"
		}
		line, ok := buffer.Next()
		if !ok || line != expected {
			fail++
			t.Errorf("round %d: Next = %q, %v", i, line, ok)
			continue
		}
		pass++
	}
	if len(buffer.data) > 64 {
		t.Errorf("consumed bytes are not reclaimed, buffer holds %d bytes", len(buffer.data))
	}
	if buffer.Pending() != len("$PI") {
		t.Errorf("Pending = %d", buffer.Pending())
	}
	t.Logf("TestLineBufferCompaction: %d pass, %d fail", pass, fail)
}
