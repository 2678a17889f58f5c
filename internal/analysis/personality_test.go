package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	normal := PersonalityInput{PeakHour: 14, ResponseMinutes: 30, Sent: 100, Received: 100, StarterPercent: 50}

	tests := []struct {
		name string
		edit func(in *PersonalityInput)
		want Personality
	}{
		{"early peak", func(in *PersonalityInput) { in.PeakHour = 4 }, NocturnalMenace},
		{"late peak", func(in *PersonalityInput) { in.PeakHour = 23 }, NocturnalMenace},
		{"hour five is not nocturnal", func(in *PersonalityInput) { in.PeakHour = 5 }, SuspiciouslyNormal},
		{"hour 22 is not nocturnal", func(in *PersonalityInput) { in.PeakHour = 22 }, SuspiciouslyNormal},
		{"rule order beats magnitude", func(in *PersonalityInput) { in.PeakHour = 2; in.ResponseMinutes = 3 }, NocturnalMenace},
		{"fast replies", func(in *PersonalityInput) { in.ResponseMinutes = 4 }, TerminallyOnline},
		{"slow replies", func(in *PersonalityInput) { in.ResponseMinutes = 121 }, TooCoolToReply},
		{"exactly two hours", func(in *PersonalityInput) { in.ResponseMinutes = 120 }, SuspiciouslyNormal},
		{"mostly receives", func(in *PersonalityInput) { in.Sent = 10; in.Received = 100 }, PopularAllegedly},
		{"mostly sends", func(in *PersonalityInput) { in.Sent = 300; in.Received = 100 }, TheYapper},
		{"ratio of exactly two", func(in *PersonalityInput) { in.Sent = 202; in.Received = 100 }, SuspiciouslyNormal},
		{"starter", func(in *PersonalityInput) { in.StarterPercent = 66 }, ConversationStarter},
		{"waiter", func(in *PersonalityInput) { in.StarterPercent = 34 }, TheWaiter},
		{"ratio beats starter", func(in *PersonalityInput) { in.Sent = 0; in.StarterPercent = 90 }, PopularAllegedly},
		{"normal", func(in *PersonalityInput) {}, SuspiciouslyNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := normal
			tt.edit(&in)
			assert.Equal(t, tt.want, Classify(in))
		})
	}
}

func TestClassify_EmptyInputUsesDefaults(t *testing.T) {
	// An empty year reports noon, 30 minutes and 50%. With nothing sent the
	// ratio rule decides.
	got := Classify(PersonalityInput{PeakHour: 12, ResponseMinutes: 30, StarterPercent: 50})
	assert.Equal(t, PopularAllegedly, got)
	assert.Equal(t, "everyone wants a piece", got.Tagline)
}
