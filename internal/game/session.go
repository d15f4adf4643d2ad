package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trivia-arena/internal/domain"
)

// Mode is the global tournament state.
type Mode string

const (
	ModeIdle     Mode = "IDLE"
	ModeWaiting  Mode = "WAITING"
	ModeRunning  Mode = "RUNNING"
	ModeGameOver Mode = "GAME_OVER"
)

const fetchTimeout = 5 * time.Second

// QuestionSource provides the random question sample a tournament runs on.
type QuestionSource interface {
	SampleQuestions(ctx context.Context, n int) ([]domain.Question, error)
}

// SettlementSink credits XP and resource counters to a player's durable
// profile at game end. Calls are best-effort and at-least-once.
type SettlementSink interface {
	Credit(ctx context.Context, userID string, xp int, resources map[domain.ResourceKind]int) error
}

// pendingCredit snapshots a player's accrued rewards for settlement. Players
// who disconnect mid-run land here so their progress is not lost.
type pendingCredit struct {
	userID    string
	xp        int
	resources map[domain.ResourceKind]int
}

// Session is the single authoritative tournament coordinator. One instance
// owns the state cycle IDLE -> WAITING -> RUNNING -> GAME_OVER -> IDLE; all
// mutations are serialized through its mutex, and every scheduled callback
// re-checks the generation counter so a reset invalidates stale timers.
type Session struct {
	rules   Rules
	channel Channel
	source  QuestionSource
	sink    SettlementSink
	now     func() time.Time

	mu       sync.Mutex
	mode     Mode
	registry *Registry
	seq      *Sequencer

	// generation increments on every reset to idle; timer callbacks carry
	// the generation they were scheduled under and bail on mismatch.
	generation    int
	startTimer    *time.Timer
	questionTimer *time.Timer
	resetTimer    *time.Timer

	departed    []pendingCredit
	announceSeq int
}

func NewSession(rules Rules, channel Channel, source QuestionSource, sink SettlementSink) *Session {
	return NewSessionWithClock(rules, channel, source, sink, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(rules Rules, channel Channel, source QuestionSource, sink SettlementSink, now func() time.Time) *Session {
	return &Session{
		rules:    rules,
		channel:  channel,
		source:   source,
		sink:     sink,
		now:      now,
		mode:     ModeIdle,
		registry: NewRegistry(),
		seq:      NewSequencer(),
	}
}

// Mode returns the current tournament mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Attach sends the initial state snapshot to a freshly connected client.
func (s *Session) Attach(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel.PublishTo(connID, Event{Type: EventInitialState, Payload: InitialStatePayload{
		Mode:    s.mode,
		Players: s.playerViews(),
	}})
}

// Join registers a connection as a player. Rejected while a game is running
// or settling; a duplicate join is a reconnect and resets nothing.
func (s *Session) Join(connID, userID, name, grade string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeRunning || s.mode == ModeGameOver {
		s.channel.PublishTo(connID, errorEvent("game in progress or just ended, try again soon"))
		return domain.ErrGameInProgress
	}

	player, err := s.registry.Join(connID, userID, name, grade)
	switch err {
	case nil:
	case domain.ErrDuplicateJoin:
		s.channel.PublishTo(connID, Event{Type: EventInitialState, Payload: InitialStatePayload{
			Mode:    s.mode,
			Players: s.playerViews(),
		}})
		return nil
	case domain.ErrMissingIdentity:
		s.channel.PublishTo(connID, errorEvent("a user id is required to join"))
		return err
	default:
		s.channel.PublishTo(connID, errorEvent(err.Error()))
		return err
	}

	if s.mode == ModeIdle {
		s.mode = ModeWaiting
	}
	// A newcomer is not ready yet, so any pending start is off.
	stopTimer(&s.startTimer)

	s.announce(CategorySystem, fmt.Sprintf("%s joined the arena!", player.Name))
	s.broadcastState()
	s.channel.Publish(Event{Type: EventWaitingUpdate, Payload: WaitingUpdatePayload{
		Message: fmt.Sprintf("Waiting for %d player(s) to ready up.", s.notReadyCount()),
	}})
	return nil
}

// Ready marks the player ready. Ignored outside WAITING and for unknown or
// already-ready players. The last ready toggle schedules the start.
func (s *Session) Ready(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeWaiting || !s.registry.SetReady(connID) {
		return
	}

	s.broadcastState()
	if s.registry.AllReady() {
		s.scheduleStart()
	}
}

// SubmitAnswer scores a submission against the active question. Stale,
// duplicate and late submissions are silently ignored; the error return is
// for callers that want to observe the reason.
func (s *Session) SubmitAnswer(connID string, questionIndex int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeRunning {
		return domain.ErrNoActiveQuestion
	}
	player, ok := s.registry.Get(connID)
	if !ok {
		return domain.ErrUnknownPlayer
	}
	question, ok := s.seq.Current()
	if !ok {
		return domain.ErrNoActiveQuestion
	}

	latency, err := s.seq.OpenAnswer(connID, questionIndex, s.now(), s.rules.QuestionTimeLimit)
	if err != nil {
		return err
	}

	score := s.rules.Score(player, question, value, latency)
	s.seq.Store(domain.AnswerRecord{
		ConnID:    connID,
		Value:     value,
		LatencyMs: latency.Milliseconds(),
		Correct:   score.Correct,
	})
	s.applyScore(player, question, score, latency)

	s.channel.PublishTo(connID, Event{Type: EventAnswerResult, Payload: AnswerResultPayload{
		Correct:       score.Correct,
		Score:         player.Score,
		PointsAwarded: score.Points,
		Combo:         player.Combo,
		ComboBroken:   score.ComboBroken,
		QuestionIndex: questionIndex,
		Submitted:     value,
	}})
	s.broadcastState()

	if s.allAnswered() {
		s.advanceLocked()
	}
	return nil
}

// Disconnect removes the player behind a closed connection. Mid-run rewards
// are snapshotted so settlement still credits them at game end.
func (s *Session) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.registry.Remove(connID)
	if player == nil {
		return
	}

	if s.mode == ModeRunning && player.UserID != "" && player.Stats.HasRewards() {
		s.departed = append(s.departed, pendingCredit{
			userID:    player.UserID,
			xp:        player.Stats.XPEarned,
			resources: copyResources(player.Stats.Resources),
		})
	}

	switch s.mode {
	case ModeWaiting:
		if s.registry.Count() == 0 {
			stopTimer(&s.startTimer)
			s.mode = ModeIdle
			return
		}
		s.announce(CategorySystem, fmt.Sprintf("%s left the arena.", player.Name))
		s.broadcastState()
		if s.startTimer == nil && s.registry.AllReady() {
			s.scheduleStart()
		}
	case ModeRunning:
		s.broadcastState()
		if s.registry.Count() == 0 {
			s.finishLocked()
			return
		}
		if s.allAnswered() {
			s.advanceLocked()
		}
	}
}

// --- internals; every method below expects s.mu held ---

func (s *Session) scheduleStart() {
	stopTimer(&s.startTimer)
	s.announce(CategorySystem, "All players ready. The tournament is starting!")
	gen := s.generation
	s.startTimer = time.AfterFunc(s.rules.StartDelay, func() { s.beginTournament(gen) })
}

// beginTournament fires from the start timer once the "starting" announcement
// has had its moment.
func (s *Session) beginTournament(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.mode != ModeWaiting || !s.registry.AllReady() {
		return
	}

	questions := s.fetchQuestions()
	s.registry.ResetForTournament()
	s.departed = nil
	if err := s.seq.Load(questions); err != nil {
		log.Printf("question load failed: %v", err)
		s.announce(CategorySystem, "The question bank let us down. Ending this round.")
		s.finishLocked()
		return
	}

	s.mode = ModeRunning
	s.broadcastState()
	s.advanceLocked()
}

// fetchQuestions samples from the external source, falling back to the
// built-in set when the source is unavailable or too small.
func (s *Session) fetchQuestions() []domain.Question {
	n := s.rules.QuestionsPerGame
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	questions, err := s.source.SampleQuestions(ctx, n)
	if err != nil || len(questions) < n {
		if err != nil {
			log.Printf("question source unavailable, using builtin set: %v", err)
		} else {
			log.Printf("question source returned %d of %d questions, using builtin set", len(questions), n)
		}
		questions = BuiltinQuestions()
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions
}

// advanceLocked closes the current round, emits its commentary, and either
// activates the next question after the lead-in or ends the game. It always
// cancels the pending question timer first so a manual advance can never
// race a timeout into a double-advance.
func (s *Session) advanceLocked() {
	stopTimer(&s.questionTimer)

	if s.seq.Index() >= 0 {
		s.publishRoundSummary()
	}

	question, done := s.seq.Advance()
	if done {
		s.finishLocked()
		return
	}
	s.broadcastState()

	gen, index := s.generation, s.seq.Index()
	s.questionTimer = time.AfterFunc(s.rules.QuestionLeadIn, func() { s.activateQuestion(gen, index, question) })
}

// activateQuestion opens the answer window once the lead-in elapsed.
func (s *Session) activateQuestion(gen, index int, question domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.mode != ModeRunning || s.seq.Index() != index {
		return
	}

	s.seq.Activate(s.now())
	s.channel.Publish(Event{Type: EventNewQuestion, Payload: NewQuestionPayload{
		Index:       index,
		Total:       s.seq.Total(),
		Text:        question.Text,
		Options:     question.Options,
		TimeLimitMs: s.rules.QuestionTimeLimit.Milliseconds(),
		Grade:       question.Grade,
		Subject:     question.Subject,
	}})

	s.questionTimer = time.AfterFunc(s.rules.QuestionTimeLimit, func() { s.onQuestionTimeout(gen, index) })
}

// onQuestionTimeout fires when the answer window elapses without everyone
// answering.
func (s *Session) onQuestionTimeout(gen, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.mode != ModeRunning || s.seq.Index() != index {
		return
	}

	s.seq.Close()
	s.channel.Publish(Event{Type: EventQuestionTimeout, Payload: QuestionTimeoutPayload{QuestionIndex: index}})
	s.advanceLocked()
}

func (s *Session) publishRoundSummary() {
	names := make(map[string]string)
	var maxCombo int
	var leader *domain.Player
	for _, p := range s.registry.SortedByScore() {
		names[p.ConnID] = p.Name
		if p.Combo > maxCombo {
			maxCombo = p.Combo
		}
		if leader == nil {
			leader = p
		}
	}

	lines := roundCommentary(roundFacts{
		records:        s.seq.Records(),
		names:          names,
		roomSize:       s.registry.Count(),
		maxCombo:       maxCombo,
		leader:         leader,
		questionNumber: s.seq.Index() + 1,
		totalQuestions: s.seq.Total(),
	})
	for _, line := range lines {
		s.announce(line.category, line.text)
	}
}

// applyScore folds one judged answer into the player's running state.
func (s *Session) applyScore(player *domain.Player, question domain.Question, score AnswerScore, latency time.Duration) {
	player.Stats.TotalAnswers++
	if !score.Correct {
		player.Combo = 0
		return
	}

	player.Score += score.Points
	player.Combo = score.ComboAfter
	player.Stats.CorrectAnswers++
	player.Stats.XPEarned += s.rules.XPPerCorrect
	if player.Combo > player.Stats.MaxCombo {
		player.Stats.MaxCombo = player.Combo
	}
	ms := latency.Milliseconds()
	if player.Stats.FastestCorrectMs < 0 || ms < player.Stats.FastestCorrectMs {
		player.Stats.FastestCorrectMs = ms
	}
	if score.DifficultyBonus > player.Stats.MaxDifficultyBonus {
		player.Stats.MaxDifficultyBonus = score.DifficultyBonus
	}
	if kind, ok := domain.ResourceForSubject(question.Subject); ok {
		player.Stats.Resources[kind]++
		if score.BonusResource() {
			player.Stats.Resources[kind]++
		}
	}
}

// finishLocked settles the tournament: final ranking and achievements go out
// first, settlement fires in parallel without blocking, and the reset timer
// takes the session back to idle.
func (s *Session) finishLocked() {
	stopTimer(&s.startTimer)
	stopTimer(&s.questionTimer)
	s.seq.Close()
	s.mode = ModeGameOver

	ranked := s.registry.SortedByScore()
	results := make([]PlayerResult, 0, len(ranked))
	credits := append([]pendingCredit(nil), s.departed...)
	for i, p := range ranked {
		results = append(results, PlayerResult{
			Rank:         i + 1,
			Name:         p.Name,
			UserID:       p.UserID,
			FinalScore:   p.Score,
			XPEarned:     p.Stats.XPEarned,
			Resources:    copyResources(p.Stats.Resources),
			Achievements: s.rules.achievementsFor(p.Stats, i+1, len(ranked), s.seq.Total()),
		})
		if p.UserID != "" && p.Stats.HasRewards() {
			credits = append(credits, pendingCredit{
				userID:    p.UserID,
				xp:        p.Stats.XPEarned,
				resources: copyResources(p.Stats.Resources),
			})
		}
	}
	s.departed = nil

	s.channel.Publish(Event{Type: EventGameOver, Payload: GameOverPayload{Results: results}})
	s.broadcastState()

	for _, credit := range credits {
		credit := credit
		go func() {
			if err := s.sink.Credit(context.Background(), credit.userID, credit.xp, credit.resources); err != nil {
				log.Printf("settlement failed for user %s: %v", credit.userID, err)
			}
		}()
	}

	gen := s.generation
	s.resetTimer = time.AfterFunc(s.rules.ResetDelay, func() { s.resetToIdle(gen) })
}

// resetToIdle clears all tournament state once the results have been on
// screen long enough. Connected clients must join again.
func (s *Session) resetToIdle(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.generation++
	stopTimer(&s.startTimer)
	stopTimer(&s.questionTimer)
	stopTimer(&s.resetTimer)

	s.registry.Clear()
	s.seq = NewSequencer()
	s.departed = nil
	s.mode = ModeIdle
	s.channel.Publish(Event{Type: EventResetGame, Payload: ResetGamePayload{
		Message: "The arena is open again. Join to play another round!",
	}})
}

func (s *Session) allAnswered() bool {
	if s.registry.Count() == 0 {
		return false
	}
	for _, p := range s.registry.SortedByScore() {
		if !s.seq.HasAnswered(p.ConnID) {
			return false
		}
	}
	return true
}

func (s *Session) broadcastState() {
	s.channel.Publish(Event{Type: EventStateUpdate, Payload: StateUpdatePayload{
		Mode:           s.mode,
		Players:        s.playerViews(),
		QuestionIndex:  s.seq.Index(),
		TotalQuestions: s.seq.Total(),
	}})
}

func (s *Session) playerViews() []PlayerView {
	players := s.registry.SortedByScore()
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, PlayerView{
			UserID:  p.UserID,
			Name:    p.Name,
			Grade:   p.Grade,
			Score:   p.Score,
			Combo:   p.Combo,
			IsReady: p.Ready,
		})
	}
	return views
}

func (s *Session) announce(category, text string) {
	s.announceSeq++
	s.channel.Publish(Event{Type: EventAnnouncerMessage, Payload: AnnouncerPayload{
		ID:        fmt.Sprintf("a-%d", s.announceSeq),
		Text:      text,
		Category:  category,
		Timestamp: s.now(),
	}})
}

func (s *Session) notReadyCount() int {
	n := 0
	for _, p := range s.registry.SortedByScore() {
		if !p.Ready {
			n++
		}
	}
	return n
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: message}}
}

func stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func copyResources(in map[domain.ResourceKind]int) map[domain.ResourceKind]int {
	out := make(map[domain.ResourceKind]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
