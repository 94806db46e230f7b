package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"arcadebot/models"
)

func TestFriendlyError_WrongGameKind(t *testing.T) {
	// A stale dice keyboard tapped while a quiz is live must name both
	// games, not fall through to the generic failure text.
	err := &models.WrongGameKindError{Have: models.GameQuiz, Want: models.GameDice}

	msg := friendlyError(err)
	assert.Contains(t, msg, "dice")
	assert.Contains(t, msg, "quiz")
	assert.NotContains(t, msg, "Something went wrong")
}

func TestFriendlyError_InsufficientCredits(t *testing.T) {
	err := &models.InsufficientCreditsError{Required: 50, Available: 10}

	msg := friendlyError(err)
	assert.Contains(t, msg, "50")
	assert.Contains(t, msg, "10")
	assert.Contains(t, msg, "/daily")
}

func TestFriendlyError_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no active session", models.ErrNoActiveSession, "No game in progress"},
		{"session already active", models.ErrSessionAlreadyActive, "already have a game"},
		{"already claimed", models.ErrAlreadyClaimed, "already claimed"},
		{"premium required", models.ErrPremiumRequired, "premium users only"},
		{"unknown error", errors.New("boom"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, friendlyError(tt.err), tt.want)
		})
	}
}
