package tetris

import "time"

// MaxLevel is the last level the tables cover.
const MaxLevel = 10

// LevelLines holds, per level, the total cleared lines that must be exceeded to level up.
var LevelLines = [MaxLevel]uint32{20, 40, 60, 80, 100, 120, 140, 160, 180, 200}

// LevelTimes holds, per level, the milliseconds between two gravity steps.
var LevelTimes = [MaxLevel]uint32{1000, 850, 750, 650, 600, 550, 500, 400, 350, 300}

func levelIndex(level uint32) int {
	switch {
	case level < 1:
		return 0
	case level > MaxLevel:
		return MaxLevel - 1
	}
	return int(level) - 1
}

// FallInterval returns how long a tetromino waits before gravity pulls it one row down.
func FallInterval(level uint32) time.Duration {
	return time.Duration(LevelTimes[levelIndex(level)]) * time.Millisecond
}

func levelThreshold(level uint32) uint32 {
	return LevelLines[levelIndex(level)]
}
