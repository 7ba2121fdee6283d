package bot

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProfile 未知的 AI 风格
var ErrUnknownProfile = errors.New("unknown ai profile")

// Profile AI 风格参数，只影响评分权重与推演规模，不改变算法
type Profile struct {
	Name               string  `json:"name"`
	Rollouts           int     `json:"rollouts"`           // 每个候选动作的推演次数 N
	Depth              int     `json:"depth"`              // 单次推演最大摸牌数 D
	AttackBias         float64 `json:"attackBias"`         // 进攻权重
	DefenseBias        float64 `json:"defenseBias"`        // 防守权重
	CallAggressiveness float64 `json:"callAggressiveness"` // 吃碰杠倾向
}

// 预置风格
var (
	Aggressive = Profile{Name: "aggressive", Rollouts: 20, Depth: 10, AttackBias: 0.8, DefenseBias: 0.2, CallAggressiveness: 0.7}
	Balanced   = Profile{Name: "balanced", Rollouts: 200, Depth: 30, AttackBias: 0.5, DefenseBias: 0.5, CallAggressiveness: 0.3}
	Defensive  = Profile{Name: "defensive", Rollouts: 150, Depth: 40, AttackBias: 0.3, DefenseBias: 0.7, CallAggressiveness: 0.1}
)

// Validate 检查参数范围
func (p Profile) Validate() error {
	if p.Rollouts < 0 || p.Depth < 0 {
		return fmt.Errorf("profile %s: rollouts and depth must not be negative", p.Name)
	}
	for name, v := range map[string]float64{
		"attackBias":         p.AttackBias,
		"defenseBias":        p.DefenseBias,
		"callAggressiveness": p.CallAggressiveness,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("profile %s: %s=%v out of [0,1]", p.Name, name, v)
		}
	}
	return nil
}

// Profiles 按名称索引的风格表
type Profiles map[string]Profile

// DefaultProfiles 返回三种预置风格
func DefaultProfiles() Profiles {
	return Profiles{
		Aggressive.Name: Aggressive,
		Balanced.Name:   Balanced,
		Defensive.Name:  Defensive,
	}
}

// Lookup 按名称查找风格
func (ps Profiles) Lookup(name string) (Profile, error) {
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// Merge 用 overrides 覆盖同名风格，返回新的风格表
func (ps Profiles) Merge(overrides Profiles) (Profiles, error) {
	merged := make(Profiles, len(ps)+len(overrides))
	for name, p := range ps {
		merged[name] = p
	}
	for name, p := range overrides {
		p.Name = name
		if err := p.Validate(); err != nil {
			return nil, err
		}
		merged[name] = p
	}
	return merged, nil
}

// Names 按字母序返回风格名称
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
