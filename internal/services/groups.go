package services

import (
	"math/rand"

	"classroom-live/internal/models"
	"classroom-live/internal/sound"
)

const (
	minGroupCount = 2
	maxGroupCount = 10
)

// GenerateGroups shuffles the present students uniformly and deals them
// into groups round-robin, so group sizes never differ by more than
// one. The requested count is bounded to [2, 10]. An empty roster
// yields no groups.
func GenerateGroups(students []*models.Student, count int, cues CuePlayer) [][]*models.Student {
	if len(students) == 0 {
		return nil
	}

	count = clamp(count, minGroupCount, maxGroupCount)

	shuffled := append([]*models.Student(nil), students...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groups := make([][]*models.Student, count)
	for i, student := range shuffled {
		groups[i%count] = append(groups[i%count], student)
	}

	if cues != nil {
		cues.Play(sound.CueCorrect)
	}
	return groups
}
