package worldgen

import "Outbreak/internal/sim/entity"

// ChunkSize 是结构模板的最小拼块边长。
const ChunkSize = 6

// Chunk 用字符画描述一个拼块，每行是一个 y，每个字符是一个 x：
//
//	. 空地   # 建筑   D 门
type Chunk [ChunkSize]string

// Part 是结构里相对原点 (DX, DY) 个拼块处的一块。
type Part struct {
	DX, DY int
	Chunk  Chunk
}

// Structure 是一组拼块组成的建筑模板。
type Structure struct {
	Name  string
	Parts []Part
}

// Size 返回结构占用的拼块宽高。
func (s Structure) Size() (w, h int) {
	for _, p := range s.Parts {
		w = max(w, p.DX+1)
		h = max(h, p.DY+1)
	}
	return w, h
}

func (c Chunk) tile(x, y int) entity.Tile {
	switch c[y][x] {
	case '#':
		return entity.BuildingTile()
	case 'D':
		return entity.DoorTile()
	default:
		return entity.EmptyTile()
	}
}

// DefaultStructures 是内置的建筑模板。每个拼块四周留一圈空地作为街道。
func DefaultStructures() []Structure {
	return []Structure{
		{
			Name: "house",
			Parts: []Part{{Chunk: Chunk{
				"......",
				".##D#.",
				".#..#.",
				".#..#.",
				".####.",
				"......",
			}}},
		},
		{
			Name: "tower",
			Parts: []Part{
				{DX: 0, DY: 0, Chunk: Chunk{
					"......",
					".####.",
					".#..#.",
					".D..#.",
					".#..#.",
					".#..#.",
				}},
				{DX: 0, DY: 1, Chunk: Chunk{
					".#..#.",
					".#..#.",
					".#..#.",
					".#..#.",
					".####.",
					"......",
				}},
			},
		},
		{
			Name: "office",
			Parts: []Part{
				{DX: 0, DY: 0, Chunk: Chunk{
					"......",
					".#####",
					".#....",
					".D....",
					".#####",
					"......",
				}},
				{DX: 1, DY: 0, Chunk: Chunk{
					"......",
					"#####.",
					"....#.",
					"....D.",
					"#####.",
					"......",
				}},
			},
		},
		{
			Name: "shop",
			Parts: []Part{{Chunk: Chunk{
				"......",
				".#D##.",
				".#..#.",
				".#..D.",
				".####.",
				"......",
			}}},
		},
	}
}
