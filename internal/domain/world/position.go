package world

import "fmt"

type Position struct {
	X uint16 `json:"x" yaml:"x"`
	Y uint16 `json:"y" yaml:"y"`
	Z uint8  `json:"z" yaml:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}
