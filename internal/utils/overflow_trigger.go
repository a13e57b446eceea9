package utils

// OverflowTrigger 每累计limit次Tick执行一次回调并重新计数
// 只能在单个协程中使用
type OverflowTrigger struct {
	limit    int
	count    int
	overflow func()
}

func NewOverflowTrigger(limit int, overflow func()) *OverflowTrigger {
	return &OverflowTrigger{limit: limit, overflow: overflow}
}

// Tick 返回本次是否触发了回调, limit不大于0时永不触发
func (trigger *OverflowTrigger) Tick() bool {
	if trigger.limit <= 0 {
		return false
	}
	trigger.count++
	if trigger.count < trigger.limit {
		return false
	}
	trigger.count = 0
	if trigger.overflow != nil {
		trigger.overflow()
	}
	return true
}

func (trigger *OverflowTrigger) Reset() { trigger.count = 0 }
