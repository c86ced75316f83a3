package game

import "sort"

// Task 调度器中的一个延迟回调
type Task struct {
	id        uint64
	due       float64
	fn        func()
	cancelled bool
	done      bool
}

// Cancel 取消尚未执行的任务
// 返回 true 表示本次调用成功取消；已执行或已取消的任务返回 false
func (t *Task) Cancel() bool {
	if t == nil || t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Pending 任务是否仍在等待执行
func (t *Task) Pending() bool {
	return t != nil && !t.done && !t.cancelled
}

// Due 任务的预定执行时间（调度器时钟，秒）
func (t *Task) Due() float64 {
	return t.due
}

// Scheduler 协作式调度器
//
// 由游戏 tick 驱动（每帧 Update 一次），所有回调都在 Update 内同步执行，
// 不创建 goroutine、不阻塞游戏循环。用于固定时长的等待点：
// 生成延迟、插箭停留时长、结算界面延迟等。
//
// 执行顺序：按预定时间升序，相同时间按注册顺序。
// 回调内新注册的任务最早在下一次 Update 执行。
type Scheduler struct {
	now    float64
	tick   uint64
	nextID uint64
	tasks  []*Task
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make([]*Task, 0),
	}
}

// After 在 delay 秒后执行 fn（delay <= 0 表示下一次 Update）
func (s *Scheduler) After(delay float64, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	task := &Task{
		id:  s.nextID,
		due: s.now + delay,
		fn:  fn,
	}
	s.tasks = append(s.tasks, task)
	return task
}

// Update 推进时钟并执行到期任务
//
// 参数：
//   - dt: 时间增量（秒）
func (s *Scheduler) Update(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	s.tick++

	// 本轮只处理 Update 开始前已注册的任务
	ready := make([]*Task, 0)
	rest := make([]*Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.cancelled {
			continue
		}
		if task.due <= s.now {
			ready = append(ready, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.tasks = rest

	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].due != ready[j].due {
			return ready[i].due < ready[j].due
		}
		return ready[i].id < ready[j].id
	})

	for _, task := range ready {
		// 可能被同一轮中更早执行的回调取消
		if task.cancelled {
			continue
		}
		task.done = true
		if task.fn != nil {
			task.fn()
		}
	}
}

// CancelAll 取消所有等待中的任务
func (s *Scheduler) CancelAll() {
	for _, task := range s.tasks {
		task.cancelled = true
	}
	s.tasks = s.tasks[:0]
}

// PendingCount 返回等待中的任务数量
func (s *Scheduler) PendingCount() int {
	count := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			count++
		}
	}
	return count
}

// Now 返回调度器时钟（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Tick 返回已执行的 Update 次数
func (s *Scheduler) Tick() uint64 {
	return s.tick
}
