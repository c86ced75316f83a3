package game

// SubscriptionID 订阅句柄，用于取消订阅
type SubscriptionID uint64

type signalHandler[T any] struct {
	id SubscriptionID
	fn func(T)
}

// Signal 有序观察者注册表
//
// 语义：
//   - Emit 同步调用所有当前订阅者，按注册顺序
//   - Emit 期间新增的订阅者不会收到本次通知
//   - Emit 期间被取消的订阅者（尚未调用的）不再收到本次通知
//
// 单线程使用（由游戏 tick 驱动），不做并发保护。
type Signal[T any] struct {
	handlers []signalHandler[T]
	nextID   SubscriptionID
	removed  map[SubscriptionID]bool
	emitting int
}

// Subscribe 注册回调，返回可用于取消订阅的句柄
func (s *Signal[T]) Subscribe(fn func(T)) SubscriptionID {
	if fn == nil {
		return 0
	}
	s.nextID++
	s.handlers = append(s.handlers, signalHandler[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe 取消订阅，未知句柄被忽略
func (s *Signal[T]) Unsubscribe(id SubscriptionID) {
	for i, h := range s.handlers {
		if h.id != id {
			continue
		}
		// 复制后再删除，避免影响正在进行的 Emit 快照
		handlers := make([]signalHandler[T], 0, len(s.handlers)-1)
		handlers = append(handlers, s.handlers[:i]...)
		handlers = append(handlers, s.handlers[i+1:]...)
		s.handlers = handlers
		if s.emitting > 0 {
			if s.removed == nil {
				s.removed = make(map[SubscriptionID]bool)
			}
			s.removed[id] = true
		}
		return
	}
}

// Emit 同步通知所有订阅者
func (s *Signal[T]) Emit(value T) {
	snapshot := s.handlers
	s.emitting++
	defer func() {
		s.emitting--
		if s.emitting == 0 {
			s.removed = nil
		}
	}()

	for _, h := range snapshot {
		if s.removed[h.id] {
			continue
		}
		h.fn(value)
	}
}

// Count 返回当前订阅者数量
func (s *Signal[T]) Count() int {
	return len(s.handlers)
}

// Clear 移除所有订阅者（场景卸载时使用）
func (s *Signal[T]) Clear() {
	if s.emitting > 0 {
		if s.removed == nil {
			s.removed = make(map[SubscriptionID]bool)
		}
		for _, h := range s.handlers {
			s.removed[h.id] = true
		}
	}
	s.handlers = nil
}
