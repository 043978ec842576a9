package ai

import "time"

// Profile 决定目标型 AI 的反应能力
type Profile struct {
	// MistakeRate 随机失误率 (0.0-1.0)，值越高 AI 越容易犯错
	MistakeRate float64

	// PanicDelay 站在爆炸路径上时的移动间隔，替代常规的随机间隔
	PanicDelay time.Duration

	// FullChainRecursion 是否启用完整连锁爆炸计算
	// 开启时 AI 会精确计算连锁爆炸，关闭时只计算一层
	FullChainRecursion bool

	// WanderSteps 游荡时保持同一方向的步数
	WanderSteps int
}

// 预设配置：普通难度
var ProfileNormal = Profile{
	MistakeRate:        0.05, // 5% 失误率
	PanicDelay:         250 * time.Millisecond,
	FullChainRecursion: false,
	WanderSteps:        3,
}

// 预设配置：困难难度
var ProfileHard = Profile{
	MistakeRate:        0.0, // 无失误
	PanicDelay:         150 * time.Millisecond,
	FullChainRecursion: true,
	WanderSteps:        2,
}
