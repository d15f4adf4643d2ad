package game

import (
	"time"

	"trivia-arena/internal/domain"
)

// Event is one outbound message. The transport serializes it as
// {"type": ..., "payload": ...}.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Channel is the fan-out capability the session publishes through. The
// transport implements it over websockets; tests use an in-memory fake.
type Channel interface {
	// Publish delivers the event to every connection in the tournament room.
	Publish(event Event)
	// PublishTo delivers the event to a single connection.
	PublishTo(connID string, event Event)
}

// Event type names on the wire.
const (
	EventInitialState     = "initialState"
	EventStateUpdate      = "stateUpdate"
	EventWaitingUpdate    = "waitingUpdate"
	EventAnnouncerMessage = "announcerMessage"
	EventNewQuestion      = "newQuestion"
	EventQuestionTimeout  = "questionTimeout"
	EventAnswerResult     = "answerResult"
	EventGameOver         = "gameOver"
	EventResetGame        = "resetGame"
	EventError            = "errorMessage"
)

// PlayerView is the broadcast-safe projection of a player.
type PlayerView struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Grade   string `json:"grade,omitempty"`
	Score   int    `json:"score"`
	Combo   int    `json:"combo"`
	IsReady bool   `json:"isReady"`
}

type InitialStatePayload struct {
	Mode    Mode         `json:"mode"`
	Players []PlayerView `json:"players"`
}

type StateUpdatePayload struct {
	Mode           Mode         `json:"mode"`
	Players        []PlayerView `json:"players"`
	QuestionIndex  int          `json:"currentQuestionIndex"`
	TotalQuestions int          `json:"totalQuestions"`
}

type WaitingUpdatePayload struct {
	Message string `json:"message"`
}

type AnnouncerPayload struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

type NewQuestionPayload struct {
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	TimeLimitMs int64    `json:"timeLimitMs"`
	Grade       string   `json:"grade"`
	Subject     string   `json:"subject"`
}

type QuestionTimeoutPayload struct {
	QuestionIndex int `json:"questionIndex"`
}

type AnswerResultPayload struct {
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
	PointsAwarded int    `json:"pointsAwarded"`
	Combo         int    `json:"combo"`
	ComboBroken   bool   `json:"comboBroken"`
	QuestionIndex int    `json:"questionIndex"`
	Submitted     string `json:"submittedValue"`
}

type PlayerResult struct {
	Rank         int                         `json:"rank"`
	Name         string                      `json:"name"`
	UserID       string                      `json:"userId"`
	FinalScore   int                         `json:"finalScore"`
	XPEarned     int                         `json:"xpEarned"`
	Resources    map[domain.ResourceKind]int `json:"resourceCounts"`
	Achievements []string                    `json:"achievements"`
}

type GameOverPayload struct {
	Results []PlayerResult `json:"results"`
}

type ResetGamePayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
