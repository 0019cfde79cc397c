package domain

// CardSet は Set Selector が1セットごとに選んだアイコン集合です。
type CardSet struct {
	SetIndex      int
	Identifier    string
	SelectedIcons []*Icon
}

// Cell はカードの1マスです。Icon が nil になるのはフリースペースの場合だけです。
type Cell struct {
	Icon             *Icon
	IsFreeSpace      bool
	IsMultiHitTarget bool
	HitCount         int
}

// Card は印刷される1枚のグリッドです。生成後は変更されません。
type Card struct {
	Title        string
	Identifier   string
	SetIndex     int
	CardIndex    int
	GridSize     int
	MultiHitMode bool
	Grid         [][]Cell
}

// Cell は (row, col) のマスを返します。
func (c *Card) Cell(row, col int) Cell {
	return c.Grid[row][col]
}

// Clone はグリッドを複製したカードを返します。アイコン参照は共有したままです。
func (c *Card) Clone() *Card {
	out := *c
	out.Grid = make([][]Cell, len(c.Grid))
	for r, row := range c.Grid {
		out.Grid[r] = append([]Cell(nil), row...)
	}
	return &out
}

// Icons はフリースペースを除いたマスのアイコンを行優先順で返します。
func (c *Card) Icons() []*Icon {
	icons := make([]*Icon, 0, c.GridSize*c.GridSize)
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell.Icon != nil {
				icons = append(icons, cell.Icon)
			}
		}
	}
	return icons
}
