package component

import "github.com/milk9111/tilepath/pathfind"

// NavGrid is the singleton that carries the level's pathfinder.
type NavGrid struct {
	Level  string
	Finder *pathfind.Finder
}

var NavGridComponent = NewComponent[NavGrid]()
