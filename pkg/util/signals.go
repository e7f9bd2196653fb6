package util

import "sync"

// SignalHandler 信号回调，sender 为触发方，params 为附加参数
type SignalHandler func(sender any, params ...any)

// Signals 进程内信号分发器，用于模型事件与监听器解耦
type Signals struct {
	mu       sync.RWMutex
	handlers map[string][]SignalHandler
}

var sig = &Signals{handlers: make(map[string][]SignalHandler)}

// Sig 返回全局信号分发器
func Sig() *Signals {
	return sig
}

// Connect 注册信号监听器
func (s *Signals) Connect(name string, handler SignalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = append(s.handlers[name], handler)
}

// Emit 同步触发信号，按注册顺序调用所有监听器
func (s *Signals) Emit(name string, sender any, params ...any) {
	s.mu.RLock()
	handlers := append([]SignalHandler(nil), s.handlers[name]...)
	s.mu.RUnlock()

	for _, h := range handlers {
		h(sender, params...)
	}
}

// Disconnect 移除某个信号的全部监听器（主要用于测试）
func (s *Signals) Disconnect(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, name)
}
