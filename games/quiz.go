package games

import (
	"fmt"

	"arcadebot/models"
)

const quizMultiplier = 2

// QuizQuestion is one entry of the fixed trivia bank.
type QuizQuestion struct {
	Question string
	Options  []string
	Answer   int // index into Options
}

// QuestionBank is the fixed trivia pool questions are drawn from.
var QuestionBank = []QuizQuestion{
	{
		Question: "What is the capital of France?",
		Options:  []string{"London", "Berlin", "Paris", "Madrid"},
		Answer:   2,
	},
	{
		Question: "Which planet is known as the Red Planet?",
		Options:  []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Answer:   1,
	},
	{
		Question: "What is 2 + 2?",
		Options:  []string{"3", "4", "5", "22"},
		Answer:   1,
	},
	{
		Question: "Who wrote 'Romeo and Juliet'?",
		Options:  []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
		Answer:   1,
	},
	{
		Question: "What is the largest ocean on Earth?",
		Options:  []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"},
		Answer:   3,
	},
}

// ResolveQuiz settles a quiz session in a single attempt: the correct option
// pays 2x cost, anything else is an immediate loss.
func ResolveQuiz(sess *models.GameSession, index int) models.Outcome {
	state := sess.Quiz
	sess.AttemptsUsed++

	if index == state.Answer {
		payout := sess.CostPaid * quizMultiplier
		return models.Outcome{
			Result:  models.ResultWin,
			Payout:  payout,
			Message: fmt.Sprintf("Correct! %s. You won %d credits!", state.Options[state.Answer], payout),
		}
	}

	return models.Outcome{
		Result: models.ResultLose,
		Message: fmt.Sprintf("Wrong answer. The correct answer was %s. You lost %d credits.",
			state.Options[state.Answer], sess.CostPaid),
	}
}
