package utils

import (
	"sync"
	"time"
)

// CachedValue 懒加载的值, ttl不大于0时永不过期, 只在Invalidate后重新获取
type CachedValue[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	loadedAt  time.Time
	value     *T
	getter    func() *T
	timeSince func(time.Time) time.Duration
}

func NewCachedValue[T any](ttl time.Duration, getter func() *T) *CachedValue[T] {
	return &CachedValue[T]{ttl: ttl, getter: getter, timeSince: time.Since}
}

func (cachedValue *CachedValue[T]) expired() bool {
	if cachedValue.value == nil {
		return true
	}
	return cachedValue.ttl > 0 && cachedValue.timeSince(cachedValue.loadedAt) > cachedValue.ttl
}

func (cachedValue *CachedValue[T]) GetValue() *T {
	cachedValue.mu.Lock()
	defer cachedValue.mu.Unlock()
	if cachedValue.expired() {
		cachedValue.value = cachedValue.getter()
		cachedValue.loadedAt = time.Now()
	}
	return cachedValue.value
}

// Invalidate 丢弃缓存, 下一次GetValue重新调用getter
func (cachedValue *CachedValue[T]) Invalidate() {
	cachedValue.mu.Lock()
	defer cachedValue.mu.Unlock()
	cachedValue.value = nil
}
