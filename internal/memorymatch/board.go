// Package memorymatch implements the rules of the daily memory-match game:
// a shuffled board of face-down tile pairs, flipped two at a time.
package memorymatch

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"familyhub/internal/models"
)

const (
	TileCount = 16
	PairCount = TileCount / 2

	// CompareDelay is how long a flipped pair stays visible before Resolve.
	CompareDelay = time.Second
)

var (
	ErrPending     = errors.New("a pair is waiting to be resolved")
	ErrNotPending  = errors.New("no pair to resolve")
	ErrOutOfRange  = errors.New("tile index out of range")
	ErrUnavailable = errors.New("tile is already face up")
	ErrFinished    = errors.New("game is finished")
)

type TileState int

const (
	Hidden TileState = iota
	Flipped
	Matched
)

type Tile struct {
	Value int       `json:"value"`
	State TileState `json:"state"`
}

// Shuffler is satisfied by *rand.Rand from math/rand and math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type Board struct {
	tiles    []Tile
	selected []int
	mistakes int

	now        func() time.Time
	startedAt  time.Time
	finishedAt time.Time
}

// NewBoard deals values 1..PairCount twice each in shuffled order. A nil
// shuffler uses the global source and a nil clock uses time.Now.
func NewBoard(shuffler Shuffler, now func() time.Time) *Board {
	values := make([]int, 0, TileCount)
	for v := 1; v <= PairCount; v++ {
		values = append(values, v, v)
	}
	if shuffler == nil {
		rand.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	} else {
		shuffler.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	}
	b, _ := NewBoardFromValues(values, now)
	return b
}

// NewBoardFromValues lays out a fixed deal. Every value must appear exactly twice.
func NewBoardFromValues(values []int, now func() time.Time) (*Board, error) {
	if len(values) != TileCount {
		return nil, fmt.Errorf("board needs %d tiles, got %d", TileCount, len(values))
	}
	counts := make(map[int]int, PairCount)
	for _, v := range values {
		counts[v]++
	}
	for v, n := range counts {
		if n != 2 {
			return nil, fmt.Errorf("value %d appears %d times", v, n)
		}
	}
	if now == nil {
		now = time.Now
	}

	b := &Board{tiles: make([]Tile, TileCount), now: now}
	for i, v := range values {
		b.tiles[i] = Tile{Value: v}
	}
	return b, nil
}

// Flip turns tile i face up. The first flip of the game starts the timer.
// The second face-up tile makes the board pending until Resolve.
func (b *Board) Flip(i int) error {
	switch {
	case b.Done():
		return ErrFinished
	case b.Pending():
		return ErrPending
	case i < 0 || i >= len(b.tiles):
		return ErrOutOfRange
	case b.tiles[i].State != Hidden:
		return ErrUnavailable
	}

	if b.startedAt.IsZero() {
		b.startedAt = b.now()
	}
	b.tiles[i].State = Flipped
	b.selected = append(b.selected, i)
	return nil
}

// Resolve settles the pending pair. A match locks both tiles; a mismatch
// turns them back over and counts a mistake.
func (b *Board) Resolve() (matched bool, err error) {
	if !b.Pending() {
		return false, ErrNotPending
	}
	first, second := b.selected[0], b.selected[1]
	b.selected = b.selected[:0]

	if b.tiles[first].Value == b.tiles[second].Value {
		b.tiles[first].State = Matched
		b.tiles[second].State = Matched
		if b.matchedCount() == len(b.tiles) {
			b.finishedAt = b.now()
		}
		return true, nil
	}

	b.tiles[first].State = Hidden
	b.tiles[second].State = Hidden
	b.mistakes++
	return false, nil
}

func (b *Board) Pending() bool {
	return len(b.selected) == 2
}

func (b *Board) Done() bool {
	return !b.finishedAt.IsZero()
}

func (b *Board) Mistakes() int {
	return b.mistakes
}

// Tiles returns a copy of the board
func (b *Board) Tiles() []Tile {
	return append([]Tile(nil), b.tiles...)
}

// DurationMs is the time from the first flip to the final match, or to now
// while the game is still running. Zero before the first flip.
func (b *Board) DurationMs() int64 {
	if b.startedAt.IsZero() {
		return 0
	}
	end := b.finishedAt
	if end.IsZero() {
		end = b.now()
	}
	return end.Sub(b.startedAt).Milliseconds()
}

// Score is the duration plus the mistake penalty; lower is better.
func (b *Board) Score() int64 {
	return models.GameScore(b.DurationMs(), b.mistakes)
}

func (b *Board) matchedCount() int {
	n := 0
	for _, t := range b.tiles {
		if t.State == Matched {
			n++
		}
	}
	return n
}
