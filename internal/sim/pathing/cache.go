package pathing

import (
	"Outbreak/internal/sim/entity"

	pq "github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/utils"
)

// Walkable 是寻路唯一需要的地图能力。
type Walkable interface {
	CanWalk(p entity.Position) bool
}

type key struct {
	start, end entity.Position
}

type entry struct {
	route []entity.Position
	ok    bool
}

// Cache 记忆 (start, end) -> 路径，包括“不可达”的结果。
// 任何改变格子可走性的操作之后必须 Invalidate，否则会返回过期路径。
// 两次失效之间不做淘汰。
type Cache struct {
	paths  map[key]entry
	hits   uint64
	misses uint64
}

func NewCache() *Cache {
	return &Cache{paths: make(map[key]entry)}
}

// Get 返回 [start, ..., end] 的最短路径。返回的切片被缓存共享，调用方只读。
func (c *Cache) Get(w Walkable, start, end entity.Position) ([]entity.Position, bool) {
	k := key{start: start, end: end}
	if e, found := c.paths[k]; found {
		c.hits++
		return e.route, e.ok
	}
	c.misses++
	route, ok := Search(w, start, end)
	c.paths[k] = entry{route: route, ok: ok}
	return route, ok
}

func (c *Cache) Invalidate() {
	clear(c.paths)
}

func (c *Cache) Len() int {
	return len(c.paths)
}

// Stats 返回命中与未命中次数。
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

type node struct {
	pos  entity.Position
	cost int
	seq  int
}

// Search 从 end 出发向 start 做等权最优先搜索。
// end 本身不要求可走（可以回到被封锁的家门），但 start 必须能经可走格子到达。
func Search(w Walkable, start, end entity.Position) ([]entity.Position, bool) {
	if start == end {
		return []entity.Position{start}, true
	}

	frontier := pq.NewWith(func(a, b interface{}) int {
		na, nb := a.(node), b.(node)
		if c := utils.IntComparator(na.cost, nb.cost); c != 0 {
			return c
		}
		// 同代价按入队顺序，保证结果稳定
		return utils.IntComparator(na.seq, nb.seq)
	})
	dist := map[entity.Position]int{end: 0}
	// toward[p] 是 p 朝 end 方向的下一步
	toward := make(map[entity.Position]entity.Position)
	seq := 0
	frontier.Enqueue(node{pos: end})

	for !frontier.Empty() {
		v, _ := frontier.Dequeue()
		cur := v.(node)
		if cur.cost > dist[cur.pos] {
			continue
		}
		if cur.pos == start {
			return unwind(toward, start, end, cur.cost), true
		}
		for _, n := range cur.pos.Neighbors() {
			if !w.CanWalk(n) {
				continue
			}
			cost := cur.cost + 1
			if d, seen := dist[n]; seen && d <= cost {
				continue
			}
			dist[n] = cost
			toward[n] = cur.pos
			seq++
			frontier.Enqueue(node{pos: n, cost: cost, seq: seq})
		}
	}
	return nil, false
}

func unwind(toward map[entity.Position]entity.Position, start, end entity.Position, length int) []entity.Position {
	route := make([]entity.Position, 0, length+1)
	for p := start; ; p = toward[p] {
		route = append(route, p)
		if p == end {
			return route
		}
	}
}
