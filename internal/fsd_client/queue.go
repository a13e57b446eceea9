package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
)

// sendQueue 待发送报文的先进先出队列, 由定时器按节奏出队
type sendQueue struct {
	logger   log.LoggerInterface
	messages []string
}

func newSendQueue(logger log.LoggerInterface) *sendQueue {
	return &sendQueue{logger: logger, messages: make([]string, 0, 16)}
}

func (q *sendQueue) Push(message string) {
	q.messages = append(q.messages, message)
}

func (q *sendQueue) Len() int { return len(q.messages) }

func (q *sendQueue) Clear() {
	clear(q.messages)
	q.messages = q.messages[:0]
}

// batchSize 按出队前的队列长度计算本次应发送的条数
func (q *sendQueue) batchSize(size int) int {
	if size == 0 {
		return 0
	}
	count := 1
	for _, threshold := range []int{5, 10, 20, 30} {
		if size > threshold {
			count++
		}
	}
	if size > 50 {
		switch {
		case size > 100:
			count += 30
		case size > 75:
			count += 20
		default:
			count += 10
		}
		if size > 75 {
			q.logger.WarnF("[Queue] Too many queued messages (%d), bulk send!", size)
		} else {
			q.logger.InfoF("[Queue] Too many queued messages (%d), bulk send!", size)
		}
	}
	return min(count, size)
}

// Tick 取出本次应发送的报文
func (q *sendQueue) Tick() []string {
	count := q.batchSize(len(q.messages))
	if count == 0 {
		return nil
	}
	batch := make([]string, count)
	copy(batch, q.messages[:count])
	remain := copy(q.messages, q.messages[count:])
	clear(q.messages[remain:])
	q.messages = q.messages[:remain]
	return batch
}
