// Package debounce 合并连续触发，只在安静期结束后处理最后一个值
package debounce

import (
	"sync"
	"time"
)

// DefaultWait 搜索输入的默认安静期
const DefaultWait = 300 * time.Millisecond

// Debouncer 每次 Trigger 重新计时，安静期结束后用最后一次的值调用 fn
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	gen     uint64
	armed   bool
	stopped bool
}

// New 创建 Debouncer，wait <= 0 时使用 DefaultWait
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Trigger 记录新值并重新开始计时
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	d.armed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	v, ok := d.take(gen)
	if ok {
		d.fn(v)
	}
}

// take 取出待处理的值，同一个值只会被取出一次；gen 为 0 表示不校验计时器代数
func (d *Debouncer[T]) take(gen uint64) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	// 已被新的 Trigger 取代的计时器
	if gen != 0 && gen != d.gen {
		return zero, false
	}
	if !d.armed || d.stopped {
		return zero, false
	}
	v := d.pending
	d.pending = zero
	d.armed = false
	return v, true
}

// Flush 立即处理待处理的值
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire(0)
}

// Stop 丢弃待处理的值，之后的 Trigger 不再生效
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
