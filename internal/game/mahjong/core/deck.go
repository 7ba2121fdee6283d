package core

import "math/rand"

// DeckGenerator 牌局生成器 (136张牌，无花牌)
type DeckGenerator struct {
	rand *rand.Rand
}

// NewDeckGenerator 创建牌局生成器，随机源由调用方提供以便复现
func NewDeckGenerator(rng *rand.Rand) *DeckGenerator {
	return &DeckGenerator{rand: rng}
}

// NewDeck 生成整副牌: 万条筒 1-9、风 1-4、箭 1-3 各4张
func NewDeck() []Tile {
	tiles := make([]Tile, 0, DeckSize)
	id := TileID(0)

	for _, suit := range []Suit{SuitCharacter, SuitBamboo, SuitDot, SuitWind, SuitDragon} {
		for value := int8(1); value <= suit.MaxValue(); value++ {
			for count := 0; count < CopiesPerKind; count++ {
				tiles = append(tiles, Tile{ID: id, Suit: suit, Value: value})
				id++
			}
		}
	}

	return tiles
}

// GenerateDeck 生成并洗好一副牌
func (d *DeckGenerator) GenerateDeck() []Tile {
	tiles := NewDeck()
	d.Shuffle(tiles)
	return tiles
}

// Shuffle 洗牌
func (d *DeckGenerator) Shuffle(tiles []Tile) {
	d.rand.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}

// Deal 从牌墙尾部轮流发牌，每人13张，返回手牌和剩余牌墙
func (d *DeckGenerator) Deal(wall []Tile, playerCount int) (hands [][]Tile, remaining []Tile) {
	hands = make([][]Tile, playerCount)
	for i := range hands {
		hands[i] = make([]Tile, 0, DealSize+1)
	}

	for round := 0; round < DealSize; round++ {
		for seat := 0; seat < playerCount; seat++ {
			last := len(wall) - 1
			hands[seat] = append(hands[seat], wall[last])
			wall = wall[:last]
		}
	}

	for _, hand := range hands {
		SortTiles(hand)
	}
	return hands, wall
}
