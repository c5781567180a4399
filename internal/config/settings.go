package config

import "sync/atomic"

// CoachingSettings 持有可热更新的教练参数。
// configwatcher 的回调在独立 goroutine 里写入，请求和定时任务并发读取，
// 因此参数整体走原子指针替换：各服务在每次运行开始时 Snapshot 一份，
// 同一次运行内参数保持一致，新值从下一次运行起生效。
type CoachingSettings struct {
	current atomic.Pointer[CoachingConfig]
}

func NewCoachingSettings(cfg CoachingConfig) *CoachingSettings {
	s := &CoachingSettings{}
	s.current.Store(&cfg)
	return s
}

// Snapshot 返回当前参数的一份拷贝
func (s *CoachingSettings) Snapshot() CoachingConfig {
	return *s.current.Load()
}

// Replace 整体替换参数，对之后的 Snapshot 可见
func (s *CoachingSettings) Replace(cfg CoachingConfig) {
	s.current.Store(&cfg)
}
