package games

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"arcadebot/models"
)

func TestScoreSpin_PayoutTable(t *testing.T) {
	tests := []struct {
		name   string
		reels  [3]string
		result models.GameResult
		payout int64
	}{
		{"triple sevens", [3]string{"7️⃣", "7️⃣", "7️⃣"}, models.ResultWin, 1250},
		{"triple diamonds", [3]string{"💎", "💎", "💎"}, models.ResultWin, 500},
		{"triple cherries", [3]string{"🍒", "🍒", "🍒"}, models.ResultWin, 250},
		{"leading pair", [3]string{"💎", "💎", "🍒"}, models.ResultWin, 50},
		{"trailing pair", [3]string{"🍒", "💎", "💎"}, models.ResultWin, 50},
		{"outer pair", [3]string{"💎", "🍒", "💎"}, models.ResultWin, 50},
		{"no match", [3]string{"🍒", "🍋", "🍊"}, models.ResultLose, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScoreSpin(25, tt.reels)
			assert.Equal(t, tt.result, out.Result)
			assert.Equal(t, tt.payout, out.Payout)
		})
	}
}

func TestSpinReels_UsesKnownSymbols(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		reels := SpinReels(rng)
		for _, symbol := range reels {
			assert.Contains(t, slotSymbols, symbol)
		}
	}
}
