package latch

import "sync"

// Flag 一次性闩锁：多个并发调用者中恰好一个赢得执行权。
// 与sync.Once不同，Do会告知调用者自己是否是赢家；
// 并且任何调用者在fn执行完成之前都不会观察到闩锁已置位。
type Flag struct {
	mu   sync.Mutex
	done bool
}

// Do 第一次调用时执行fn并返回true，之后的调用不执行fn并返回false。
// fn执行期间持有锁，因此并发的Do调用会等到fn完成后才返回false。
// fn为nil时仅置位闩锁。
func (f *Flag) Do(fn func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return false
	}
	f.done = true

	if fn != nil {
		fn()
	}
	return true
}

// Set 不带动作的置位，语义同Do(nil)
func (f *Flag) Set() bool {
	return f.Do(nil)
}

// Done 闩锁是否已置位
func (f *Flag) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
