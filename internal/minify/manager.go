package minify

import (
	"fmt"

	"markupmin-go/internal/config"
)

// Manager 最小化策略管理器接口
type Manager interface {
	// SelectPolicy 按配置顺序扫描策略，返回首个对该请求生效的策略；
	// 没有命中时返回nil。每个响应最多只有一条策略生效
	SelectPolicy(method, mediaType, url string) *Policy
}

type minifyManager struct {
	policies []*Policy
}

// NewManager 从配置创建策略管理器，策略顺序即优先级
func NewManager(cfg config.MinifyConfig) (Manager, error) {
	if !cfg.Enabled {
		return &minifyManager{}, nil
	}

	policies := make([]*Policy, 0, len(cfg.Policies))
	for _, pc := range cfg.Policies {
		policy, err := NewPolicyFromConfig(pc)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}

	return &minifyManager{policies: policies}, nil
}

// NewPolicyFromConfig 从单条策略配置构建策略
func NewPolicyFromConfig(pc config.PolicyConfig) (*Policy, error) {
	var minifier Minifier
	switch pc.Markup {
	case "html", "":
		minifier = NewHTMLMinifier()
	case "xml":
		minifier = NewXMLMinifier()
	default:
		return nil, fmt.Errorf("unknown markup type %q in policy %q", pc.Markup, pc.Name)
	}

	return &Policy{
		Name:              pc.Name,
		Minifier:          minifier,
		CollectStatistics: pc.CollectStatistics,
		methods:           pc.MethodList(),
		mediaTypes:        pc.MediaTypeList(),
		includePaths:      pc.IncludeList(),
		excludePaths:      pc.ExcludeList(),
	}, nil
}

// NewPolicy 直接构建策略（测试和程序内组装用）
func NewPolicy(name string, minifier Minifier, methods, mediaTypes, includePaths, excludePaths []string, collectStatistics bool) *Policy {
	return &Policy{
		Name:              name,
		Minifier:          minifier,
		CollectStatistics: collectStatistics,
		methods:           methods,
		mediaTypes:        mediaTypes,
		includePaths:      includePaths,
		excludePaths:      excludePaths,
	}
}

// SelectPolicy 实现 Manager 接口
func (m *minifyManager) SelectPolicy(method, mediaType, url string) *Policy {
	for _, p := range m.policies {
		if p.IsSupportedHttpMethod(method) && p.IsSupportedMediaType(mediaType) && p.IsProcessablePage(url) {
			return p
		}
	}
	return nil
}

// NewManagerFromPolicies 从已构建的策略创建管理器
func NewManagerFromPolicies(policies ...*Policy) Manager {
	return &minifyManager{policies: policies}
}
