package plugin

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry target 注册表
// 管理 target 名称到实现的映射，确保一个名称只绑定一个 target
type Registry struct {
	mu sync.RWMutex

	// targets target 名 -> target
	targets map[string]Target
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// Register 注册 target
// 如果名称已被注册，返回错误
func (r *Registry) Register(t Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(t.Name())
	if name == "" {
		return fmt.Errorf("target 名称不能为空")
	}
	if _, ok := r.targets[name]; ok {
		return fmt.Errorf("target %q 已注册", name)
	}

	r.targets[name] = t
	return nil
}

// MustRegister 注册 target，失败时 panic
func (r *Registry) MustRegister(t Target) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Unregister 取消注册 target
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if _, ok := r.targets[name]; !ok {
		return fmt.Errorf("target %q 未注册", name)
	}
	delete(r.targets, name)
	return nil
}

// Get 根据名称获取 target，名称不区分大小写
func (r *Registry) Get(name string) (Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[strings.ToLower(name)]
	return t, ok
}

// Lookup 与 Get 相同，但未注册时返回带有可选列表的错误
func (r *Registry) Lookup(name string) (Target, error) {
	if t, ok := r.Get(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("未知的 target %q (可选: %s)", name, strings.Join(r.Names(), ", "))
}

// Targets 返回所有已注册的 target，按名称排序
func (r *Registry) Targets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b Target) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// Names 返回所有已注册的 target 名称，按字母排序
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.targets))
	for name := range r.targets {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

// 全局注册表
var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// Register 向全局注册表注册 target
func Register(t Target) error {
	return globalRegistry.Register(t)
}

// MustRegister 向全局注册表注册 target，失败时 panic
func MustRegister(t Target) {
	globalRegistry.MustRegister(t)
}
