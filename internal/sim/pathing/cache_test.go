package pathing

import (
	"testing"

	"Outbreak/internal/sim/entity"
)

// countingGrid 记录可走性查询次数，用来验证缓存命中时不再搜索。
type countingGrid struct {
	m     *entity.Map
	calls int
}

func (g *countingGrid) CanWalk(p entity.Position) bool {
	g.calls++
	return g.m.CanWalk(p)
}

func openGrid(w, h int) *entity.Map {
	return entity.NewMap(w, h, entity.EmptyTile())
}

func assertContiguous(t *testing.T, route []entity.Position, start, end entity.Position) {
	t.Helper()
	if route[0] != start || route[len(route)-1] != end {
		t.Fatalf("期望路径从 %v 到 %v，got=%v", start, end, route)
	}
	for i := 1; i < len(route); i++ {
		if route[i-1].Manhattan(route[i]) != 1 {
			t.Fatalf("期望相邻两步距离为 1，got=%v", route)
		}
	}
}

func TestGet_开阔地路径长度等于曼哈顿距离加一(t *testing.T) {
	c := NewCache()
	m := openGrid(10, 10)
	start, end := entity.Pos(1, 2), entity.Pos(7, 5)

	route, ok := c.Get(m, start, end)
	if !ok {
		t.Fatalf("期望可达")
	}
	if len(route) != start.Manhattan(end)+1 {
		t.Fatalf("期望长度 %d，got=%d", start.Manhattan(end)+1, len(route))
	}
	assertContiguous(t, route, start, end)
}

func TestGet_绕墙走最短路(t *testing.T) {
	m := openGrid(5, 5)
	// x=2 一列墙，只在 y=4 留口
	for y := 0; y < 4; y++ {
		m.Set(entity.Pos(2, y), entity.BuildingTile())
	}
	start, end := entity.Pos(0, 0), entity.Pos(4, 0)
	route, ok := NewCache().Get(m, start, end)
	if !ok {
		t.Fatalf("期望可达")
	}
	// 下到 y=4，穿过去，再上来：4 + 4 + 4 = 12 步
	if len(route) != 13 {
		t.Fatalf("期望 13 个格子，got=%d route=%v", len(route), route)
	}
	assertContiguous(t, route, start, end)
	for _, p := range route {
		if !m.CanWalk(p) {
			t.Fatalf("期望路径上全部可走，%v 不可走", p)
		}
	}
}

func TestGet_第二次查询命中缓存(t *testing.T) {
	g := &countingGrid{m: openGrid(8, 8)}
	c := NewCache()
	first, _ := c.Get(g, entity.Pos(0, 0), entity.Pos(7, 7))
	if g.calls == 0 {
		t.Fatalf("期望第一次查询触发搜索")
	}
	before := g.calls
	second, _ := c.Get(g, entity.Pos(0, 0), entity.Pos(7, 7))
	if g.calls != before {
		t.Fatalf("期望第二次查询不再访问地图，calls %d -> %d", before, g.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("期望两次结果一致")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("期望 1 命中 1 未命中，got=%d/%d", hits, misses)
	}
}

func TestGet_不可达也被缓存(t *testing.T) {
	m := openGrid(5, 5)
	for y := 0; y < 5; y++ {
		m.Set(entity.Pos(2, y), entity.RoadBlockTile())
	}
	g := &countingGrid{m: m}
	c := NewCache()
	if _, ok := c.Get(g, entity.Pos(0, 0), entity.Pos(4, 4)); ok {
		t.Fatalf("期望被路障完全隔断时不可达")
	}
	before := g.calls
	if _, ok := c.Get(g, entity.Pos(0, 0), entity.Pos(4, 4)); ok || g.calls != before {
		t.Fatalf("期望负结果命中缓存")
	}
}

func TestInvalidate_门封锁与解锁(t *testing.T) {
	m := openGrid(5, 3)
	// 中间一列只有门可以通过
	m.Set(entity.Pos(2, 0), entity.BuildingTile())
	m.Set(entity.Pos(2, 1), entity.DoorTile())
	m.Set(entity.Pos(2, 2), entity.BuildingTile())
	c := NewCache()
	start, end := entity.Pos(0, 1), entity.Pos(4, 1)

	if _, ok := c.Get(m, start, end); !ok {
		t.Fatalf("期望门未封锁时可达")
	}
	m.Set(entity.Pos(2, 1), entity.LockedDoorTile(1440))
	c.Invalidate()
	if c.Len() != 0 {
		t.Fatalf("期望失效后缓存为空")
	}
	if _, ok := c.Get(m, start, end); ok {
		t.Fatalf("期望门封锁后不可达")
	}
	m.Set(entity.Pos(2, 1), entity.DoorTile())
	c.Invalidate()
	if _, ok := c.Get(m, start, end); !ok {
		t.Fatalf("期望门解锁后重新可达")
	}
}

func TestSearch_终点可以不可走但起点被困时不可达(t *testing.T) {
	m := openGrid(5, 1)
	door := entity.Pos(4, 0)
	m.Set(door, entity.LockedDoorTile(10))

	route, ok := Search(m, entity.Pos(0, 0), door)
	if !ok || len(route) != 5 {
		t.Fatalf("期望可以走回被封锁的家门，ok=%v route=%v", ok, route)
	}
	if _, ok := Search(m, door, entity.Pos(0, 0)); ok {
		t.Fatalf("期望封锁门内的人走不出来")
	}
	if r, ok := Search(m, door, door); !ok || len(r) != 1 {
		t.Fatalf("期望起点等于终点时返回单格路径")
	}
}
