// Package timegrid partitions a day into the fixed 10-minute slot labels
// used across the scheduler. The grid is the same for every date and
// location: 144 labels from 00:00 to 23:50.
package timegrid

import "fmt"

const (
	SlotMinutes = 10
	SlotsPerDay = 24 * 60 / SlotMinutes
)

var (
	labels []string
	index  map[string]int
)

func init() {
	labels = make([]string, 0, SlotsPerDay)
	index = make(map[string]int, SlotsPerDay)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			l := fmt.Sprintf("%02d:%02d", h, m)
			index[l] = len(labels)
			labels = append(labels, l)
		}
	}
}

// Labels returns the ordered day grid. The caller must not mutate the
// returned slice.
func Labels() []string {
	return labels
}

// Valid reports whether label is one of the 144 grid labels.
func Valid(label string) bool {
	_, ok := index[label]
	return ok
}

// EndOf returns the exclusive right edge of a slot: the label 10 minutes
// later, or "24:00" after the last slot of the day. Returns "" for labels
// not on the grid.
func EndOf(label string) string {
	i, ok := index[label]
	if !ok {
		return ""
	}
	if i == len(labels)-1 {
		return "24:00"
	}
	return labels[i+1]
}
