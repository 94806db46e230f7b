package games

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arcadebot/models"
)

func newQuizSession(q QuizQuestion) *models.GameSession {
	return &models.GameSession{
		Kind:        models.GameQuiz,
		CostPaid:    20,
		MaxAttempts: 1,
		Quiz: &models.QuizState{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		},
	}
}

func TestResolveQuiz_CorrectAnswerPaysDouble(t *testing.T) {
	sess := newQuizSession(QuestionBank[0])

	out := ResolveQuiz(sess, QuestionBank[0].Answer)
	assert.Equal(t, models.ResultWin, out.Result)
	assert.Equal(t, int64(40), out.Payout)
	assert.Contains(t, out.Message, "Paris")
}

func TestResolveQuiz_WrongAnswerLosesImmediately(t *testing.T) {
	sess := newQuizSession(QuestionBank[0])

	out := ResolveQuiz(sess, 0)
	assert.Equal(t, models.ResultLose, out.Result)
	assert.Zero(t, out.Payout)
	// The correct answer is revealed on loss
	assert.Contains(t, out.Message, "Paris")
}

func TestQuestionBank_AnswersInRange(t *testing.T) {
	for _, q := range QuestionBank {
		assert.GreaterOrEqual(t, q.Answer, 0, q.Question)
		assert.Less(t, q.Answer, len(q.Options), q.Question)
	}
}
