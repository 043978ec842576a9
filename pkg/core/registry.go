package core

// Registry 角色管理：按 id 持有本局所有角色，保持注册顺序
// 死亡角色保留在注册表中，用于结算统计。
type Registry struct {
	order []string
	byID  map[string]*Character
}

// NewRegistry 创建角色注册表
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Character)}
}

// Register 注册角色，同 id 覆盖旧角色
func (r *Registry) Register(c *Character) {
	if _, ok := r.byID[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.byID[c.ID] = c
}

// Remove 移除角色
func (r *Registry) Remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get 按 id 查找
func (r *Registry) Get(id string) (*Character, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Len 角色数量
func (r *Registry) Len() int {
	return len(r.order)
}

// All 按注册顺序返回全部角色
func (r *Registry) All() []*Character {
	return r.filter(nil)
}

// Humans 玩家控制的角色
func (r *Registry) Humans() []*Character {
	return r.filter(func(c *Character) bool { return c.Kind == KindHuman })
}

// Computers 电脑控制的角色
func (r *Registry) Computers() []*Character {
	return r.filter(func(c *Character) bool { return c.Kind == KindComputer })
}

// Alive 存活角色
func (r *Registry) Alive() []*Character {
	return r.filter((*Character).IsAlive)
}

// OccupiedBy 返回占据该格的存活角色（排除 excludeID）
func (r *Registry) OccupiedBy(p GridPos, excludeID string) (*Character, bool) {
	for _, id := range r.order {
		c := r.byID[id]
		if c.ID != excludeID && c.IsAlive() && c.GridPos == p {
			return c, true
		}
	}
	return nil, false
}

// Clear 清空注册表
func (r *Registry) Clear() {
	r.order = nil
	r.byID = make(map[string]*Character)
}

func (r *Registry) filter(keep func(*Character) bool) []*Character {
	out := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		c := r.byID[id]
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	return out
}
