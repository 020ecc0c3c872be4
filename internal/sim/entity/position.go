package entity

import "fmt"

// Position 是地图上的格子坐标，值类型，可直接作为 map key。
type Position struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Neighbors 返回上下左右四个相邻格，顺序固定，保证寻路结果可复现。
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{X: p.X, Y: p.Y - 1},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X - 1, Y: p.Y},
	}
}

// Manhattan 曼哈顿距离。
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Less 先比 X 再比 Y，用于需要稳定顺序的遍历。
func (p Position) Less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
