package ai

import (
	"time"

	"bombarena/pkg/core"
)

// DangerField 记录每个格子最早会被爆炸覆盖的时间
type DangerField struct {
	Earliest map[core.GridPos]time.Time

	now  time.Time
	fuse time.Duration
}

type pendingBlast struct {
	pos   core.GridPos
	at    time.Time
	cells []core.GridPos
}

func (df *DangerField) Update(game *core.Game, now time.Time, fullChain bool) {
	df.now = now
	df.fuse = game.Config().Bomb.Fuse
	df.Earliest = make(map[core.GridPos]time.Time)

	armed := game.Bombs.Armed()
	blasts := make([]pendingBlast, 0, len(armed))
	for _, b := range armed {
		blasts = append(blasts, pendingBlast{
			pos:   b.Pos,
			at:    b.DetonateAt,
			cells: core.BlastCells(game.Map, b.Pos, b.Range),
		})
	}
	propagateChains(blasts, fullChain)
	for _, pb := range blasts {
		df.mark(pb.cells, pb.at)
	}

	// 正在爆炸和残留的格子是即时危险
	for _, exp := range game.Bombs.Explosions() {
		df.mark(exp.Cells, now)
	}
	for _, bc := range game.Blasts.Cells() {
		if bc.Until.After(now) {
			df.mark([]core.GridPos{bc.Pos}, now)
		}
	}
}

// propagateChains 被波及的炸弹提前到引爆者的时间
func propagateChains(blasts []pendingBlast, fullChain bool) {
	changed := true
	for changed {
		changed = false
		for i := range blasts {
			for _, cell := range blasts[i].cells {
				for j := range blasts {
					if i == j || blasts[j].pos != cell {
						continue
					}
					if blasts[i].at.Before(blasts[j].at) {
						blasts[j].at = blasts[i].at
						changed = true
					}
				}
			}
		}
		if !fullChain {
			return
		}
	}
}

func (df *DangerField) mark(cells []core.GridPos, at time.Time) {
	for _, c := range cells {
		if cur, ok := df.Earliest[c]; !ok || at.Before(cur) {
			df.Earliest[c] = at
		}
	}
}

// WithBomb 返回假设在 pos 放下炸弹后的危险场副本
func (df *DangerField) WithBomb(game *core.Game, pos core.GridPos, rangeVal int, fullChain bool) *DangerField {
	out := &DangerField{
		Earliest: make(map[core.GridPos]time.Time, len(df.Earliest)),
		now:      df.now,
		fuse:     df.fuse,
	}
	for p, t := range df.Earliest {
		out.Earliest[p] = t
	}

	at := df.now.Add(df.fuse)
	if cur, ok := df.Earliest[pos]; ok && cur.Before(at) {
		at = cur
	}
	blasts := []pendingBlast{{pos: pos, at: at, cells: core.BlastCells(game.Map, pos, rangeVal)}}
	for _, b := range game.Bombs.Armed() {
		blasts = append(blasts, pendingBlast{
			pos:   b.Pos,
			at:    b.DetonateAt,
			cells: core.BlastCells(game.Map, b.Pos, b.Range),
		})
	}
	propagateChains(blasts, fullChain)
	for _, pb := range blasts {
		out.mark(pb.cells, pb.at)
	}
	return out
}

func (df *DangerField) InDanger(p core.GridPos) bool {
	_, ok := df.Earliest[p]
	return ok
}

// SafeAt 在时间 t 站在 p 上是否还没被炸到
func (df *DangerField) SafeAt(p core.GridPos, t time.Time) bool {
	e, ok := df.Earliest[p]
	return !ok || t.Before(e)
}

// Level 0 表示安全，1 表示正在爆炸
func (df *DangerField) Level(p core.GridPos) float64 {
	e, ok := df.Earliest[p]
	if !ok {
		return 0
	}
	remaining := e.Sub(df.now)
	if remaining <= 0 {
		return 1
	}
	if df.fuse <= 0 || remaining >= df.fuse {
		return 0
	}
	return 1 - float64(remaining)/float64(df.fuse)
}
