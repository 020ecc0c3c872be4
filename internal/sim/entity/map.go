package entity

// Map 是固定尺寸的格子网格，按列存储（下标 x*Height+y）。越界坐标一律不可走。
type Map struct {
	Width  int    `msgpack:"w"`
	Height int    `msgpack:"h"`
	Tiles  []Tile `msgpack:"tiles"`
}

func NewMap(width, height int, fill Tile) *Map {
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = fill
	}
	return &Map{Width: width, Height: height, Tiles: tiles}
}

func (m *Map) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

func (m *Map) index(p Position) int {
	return p.X*m.Height + p.Y
}

// At 返回格子内容；越界时 ok=false。
func (m *Map) At(p Position) (Tile, bool) {
	if !m.InBounds(p) {
		return Tile{}, false
	}
	return m.Tiles[m.index(p)], true
}

// Set 直接改写格子，越界写入被忽略并返回 false。
// 模拟内部修改地图必须走会话的 setTile，保证寻路缓存同步失效。
func (m *Map) Set(p Position, t Tile) bool {
	if !m.InBounds(p) {
		return false
	}
	m.Tiles[m.index(p)] = t
	return true
}

// CanWalk 实现寻路所需的可走判定。
func (m *Map) CanWalk(p Position) bool {
	t, ok := m.At(p)
	return ok && t.Walkable()
}

// Each 按 x 再 y 的顺序遍历全部格子。
func (m *Map) Each(fn func(Position, Tile)) {
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			fn(Position{X: x, Y: y}, m.Tiles[x*m.Height+y])
		}
	}
}

func (m *Map) Clone() *Map {
	out := &Map{Width: m.Width, Height: m.Height, Tiles: make([]Tile, len(m.Tiles))}
	copy(out.Tiles, m.Tiles)
	return out
}
