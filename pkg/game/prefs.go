package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 持久化键名
const (
	PrefKeyTotalScore   = "TotalScore"
	PrefKeyTotalHits    = "TotalHits"
	PrefKeyTotalTime    = "TotalTime"
	PrefKeySafetyAgreed = "SafetyAgreed"
)

// LevelScoreKey 返回关卡得分键名，如 "Level_3_Score"
func LevelScoreKey(levelNumber int) string {
	return fmt.Sprintf("Level_%d_Score", levelNumber)
}

// LevelHitsKey 返回关卡命中数键名，如 "Level_3_Hits"
func LevelHitsKey(levelNumber int) string {
	return fmt.Sprintf("Level_%d_Hits", levelNumber)
}

// PrefsStore 字符串键的数值存储（跨进程重启保存）
//
// Set 系列方法只修改内存，调用 Save 才会写入磁盘。
type PrefsStore interface {
	GetInt(key string, defaultValue int) int
	SetInt(key string, value int)
	GetFloat(key string, defaultValue float64) float64
	SetFloat(key string, value float64)
	HasKey(key string) bool
	DeleteKey(key string)
	DeleteAll()
	Save() error
}

// prefsData 持久化格式（整体作为一个 YAML 文档保存）
type prefsData struct {
	Ints   map[string]int     `yaml:"ints"`
	Floats map[string]float64 `yaml:"floats"`
}

// Prefs 基于 gdata 的 PrefsStore 实现
type Prefs struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
	data         prefsData
	dirty        bool
}

// 存储路径常量
const (
	prefsObject   = "prefs"
	prefsProperty = "values"
)

// NewPrefs 创建数值存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
//
// 返回：
//   - *Prefs: 存储实例（加载失败时为空存储）
//   - error: 已保存的数据无法读取时返回错误（不影响创建）
func NewPrefs(gdataManager *gdata.Manager) (*Prefs, error) {
	p := &Prefs{
		gdataManager: gdataManager,
		data:         newPrefsData(),
	}

	if err := p.Load(); err != nil {
		log.Printf("[Prefs] Warning: Failed to load prefs: %v (starting empty)", err)
		return p, err
	}
	return p, nil
}

func newPrefsData() prefsData {
	return prefsData{
		Ints:   make(map[string]int),
		Floats: make(map[string]float64),
	}
}

// Load 从 gdata 重新加载所有数据（丢弃未保存的修改）
func (p *Prefs) Load() error {
	p.data = newPrefsData()
	p.dirty = false

	if p.gdataManager == nil {
		return nil
	}
	if !p.gdataManager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}

	raw, err := p.gdataManager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}

	var loaded prefsData
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal prefs: %w", err)
	}
	if loaded.Ints != nil {
		p.data.Ints = loaded.Ints
	}
	if loaded.Floats != nil {
		p.data.Floats = loaded.Floats
	}

	log.Printf("[Prefs] Loaded %d keys", len(p.data.Ints)+len(p.data.Floats))
	return nil
}

// Save 写入 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (p *Prefs) Save() error {
	if p.gdataManager == nil {
		p.dirty = false
		return nil
	}

	raw, err := yaml.Marshal(&p.data)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := p.gdataManager.SaveObjectProp(prefsObject, prefsProperty, raw); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}

	p.dirty = false
	return nil
}

// GetInt 读取整数，不存在时返回默认值
func (p *Prefs) GetInt(key string, defaultValue int) int {
	if v, ok := p.data.Ints[key]; ok {
		return v
	}
	return defaultValue
}

// SetInt 写入整数（同名浮点值被覆盖）
func (p *Prefs) SetInt(key string, value int) {
	delete(p.data.Floats, key)
	p.data.Ints[key] = value
	p.dirty = true
}

// GetFloat 读取浮点数，不存在时返回默认值
// 整数键也可按浮点读取
func (p *Prefs) GetFloat(key string, defaultValue float64) float64 {
	if v, ok := p.data.Floats[key]; ok {
		return v
	}
	if v, ok := p.data.Ints[key]; ok {
		return float64(v)
	}
	return defaultValue
}

// SetFloat 写入浮点数（同名整数值被覆盖）
func (p *Prefs) SetFloat(key string, value float64) {
	delete(p.data.Ints, key)
	p.data.Floats[key] = value
	p.dirty = true
}

// HasKey 检查键是否存在
func (p *Prefs) HasKey(key string) bool {
	if _, ok := p.data.Ints[key]; ok {
		return true
	}
	_, ok := p.data.Floats[key]
	return ok
}

// DeleteKey 删除键
func (p *Prefs) DeleteKey(key string) {
	delete(p.data.Ints, key)
	delete(p.data.Floats, key)
	p.dirty = true
}

// DeleteAll 清空所有键
func (p *Prefs) DeleteAll() {
	p.data = newPrefsData()
	p.dirty = true
}

// IsDirty 是否有未保存的修改
func (p *Prefs) IsDirty() bool {
	return p.dirty
}

// Keys 返回所有键（排序后）
func (p *Prefs) Keys() []string {
	keys := make([]string, 0, len(p.data.Ints)+len(p.data.Floats))
	for k := range p.data.Ints {
		keys = append(keys, k)
	}
	for k := range p.data.Floats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
