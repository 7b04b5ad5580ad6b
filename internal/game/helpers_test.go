package game

import (
	"math"
	"time"
)

var g0 = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func nan() float64 { return math.NaN() }
