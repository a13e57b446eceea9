package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"time"
)

const (
	consolidateDelay     = 250 * time.Millisecond
	consolidateMaxInputs = 10
)

// textConsolidator 合并短时间内收到的文本消息, 同一发送者与接收者的内容以换行连接
// 除定时器回调外只在工作协程中使用
type textConsolidator struct {
	post       func(task func()) bool
	flush      func(messages []fsd.TextMessage)
	pending    []fsd.TextMessage
	inputs     int
	generation uint64
	timer      *time.Timer
}

func newTextConsolidator(post func(task func()) bool, flush func(messages []fsd.TextMessage)) *textConsolidator {
	return &textConsolidator{post: post, flush: flush}
}

// Add 监管消息立即放出, 其余消息在最后一次输入250ms后或累计10次输入时放出
func (t *textConsolidator) Add(message fsd.TextMessage) {
	if message.Supervisor {
		t.flush([]fsd.TextMessage{message})
		return
	}
	merged := false
	for i := range t.pending {
		pending := &t.pending[i]
		if pending.Sender == message.Sender && pending.Receiver == message.Receiver {
			pending.Message += "\n" + message.Message
			merged = true
			break
		}
	}
	if !merged {
		t.pending = append(t.pending, message)
	}
	t.inputs++
	if t.inputs >= consolidateMaxInputs {
		t.Flush()
		return
	}
	t.restartTimer()
}

func (t *textConsolidator) restartTimer() {
	t.stopTimer()
	generation := t.generation
	t.timer = time.AfterFunc(consolidateDelay, func() {
		t.post(func() {
			if generation == t.generation {
				t.Flush()
			}
		})
	})
}

func (t *textConsolidator) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
}

func (t *textConsolidator) Flush() {
	t.stopTimer()
	if len(t.pending) == 0 {
		return
	}
	messages := t.pending
	t.pending = nil
	t.inputs = 0
	t.flush(messages)
}

func (t *textConsolidator) Len() int { return len(t.pending) }

func (t *textConsolidator) Clear() {
	t.stopTimer()
	t.pending = nil
	t.inputs = 0
}
