package pathfind

import "errors"

var (
	ErrUnreachableTarget = errors.New("pathfind: target tile is impassable")
	ErrSearchExhausted   = errors.New("pathfind: search exhausted before reaching target")
	ErrInvalidCoordinate = errors.New("pathfind: coordinate outside grid")
	ErrAtTarget          = errors.New("pathfind: agent already on target tile")
	ErrInvalidOption     = errors.New("pathfind: invalid option")
)
