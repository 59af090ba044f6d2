// Package game defines the board primitives for Neon Snake.
//
// These types are deliberately small value types: the engine in package rules
// owns exactly one Snake and one food Point and mutates them once per tick.
// Coordinates follow screen conventions: (0,0) is the top-left cell and Y
// grows downwards.
package game

import "fmt"

// Point is a board coordinate.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four movement headings.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d <= Right
}

// Opposite returns the 180 degree reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the unit step for d.
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if s == name {
			return Direction(i), true
		}
	}
	return 0, false
}

// Grid is a square board with wraparound addressing.
type Grid struct {
	Size int
}

// Wrap folds p back onto the board. Each axis wraps independently:
// -1 becomes Size-1 and Size becomes 0.
func (g Grid) Wrap(p Point) Point {
	if p.X < 0 {
		p.X = g.Size - 1
	} else if p.X >= g.Size {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = g.Size - 1
	} else if p.Y >= g.Size {
		p.Y = 0
	}
	return p
}

// Contains reports whether p lies on the board.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// Cells is the total number of cells on the board.
func (g Grid) Cells() int {
	return g.Size * g.Size
}

// Snake is the ordered body, head first.
type Snake struct {
	Body []Point
}

// NewSnake builds a straight horizontal snake of length n whose head sits at
// head and whose tail trails off to the left.
func NewSnake(head Point, n int) Snake {
	body := make([]Point, n)
	for i := range body {
		body[i] = Point{X: head.X - i, Y: head.Y}
	}
	return Snake{Body: body}
}

// Head returns the first segment.
func (s *Snake) Head() Point {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// PeekNextHead returns where the head would land after one step in dir.
// It does not mutate the snake.
func (s *Snake) PeekNextHead(dir Direction, grid Grid) Point {
	head := s.Head()
	d := dir.Delta()
	return grid.Wrap(Point{X: head.X + d.X, Y: head.Y + d.Y})
}

// Advance prepends newHead and drops the tail unless the snake grew.
func (s *Snake) Advance(newHead Point, grew bool) {
	s.Body = append(s.Body, Point{})
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = newHead
	if !grew {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// Occupies reports whether any segment sits on p.
func (s *Snake) Occupies(p Point) bool {
	for _, bp := range s.Body {
		if bp == p {
			return true
		}
	}
	return false
}

// SelfCollision reports whether newHead hits the body as it stands before the
// move. The current head is excluded since it vacates its cell; every other
// segment, the tail included, counts.
func (s *Snake) SelfCollision(newHead Point) bool {
	for _, bp := range s.Body[1:] {
		if bp == newHead {
			return true
		}
	}
	return false
}

// Clone performs a deep copy of the body.
func (s *Snake) Clone() Snake {
	out := Snake{}
	if len(s.Body) > 0 {
		out.Body = make([]Point, len(s.Body))
		copy(out.Body, s.Body)
	}
	return out
}
