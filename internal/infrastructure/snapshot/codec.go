// Package snapshot encodes sessions into the persisted record format.
//
// The record is a flat JSON object with camelCase keys. Decoding is
// fail-soft: each field is parsed on its own, a field that does not parse
// or breaks an invariant keeps its default, and only a record that is not
// a JSON object at all is discarded.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
)

type boardEntry struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

type record struct {
	UserName       string                `json:"userName"`
	UserMoney      int                   `json:"userMoney"`
	TotalIncome    int                   `json:"totalIncome"`
	TotalExpense   int                   `json:"totalExpense"`
	SelectedAvatar domain.Avatar         `json:"selectedAvatar"`
	CurrentScreen  domain.Screen         `json:"currentScreen"`
	BoardPosition  int                   `json:"boardPosition"`
	BoardHistory   []boardEntry          `json:"boardHistory"`
	UserChoices    []domain.ChoiceRecord `json:"userChoices"`
	DiaryText      string                `json:"diaryText"`
	QuizAnswers    map[string]string     `json:"quizAnswers"`
	QuizCompleted  bool                  `json:"quizCompleted"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// Codec implements ports.SnapshotCodec.
type Codec struct {
	boardSize int
}

// NewCodec returns a Codec that rejects board positions outside
// [0, boardSize).
func NewCodec(boardSize int) *Codec {
	if boardSize <= 0 {
		boardSize = domain.BoardSize
	}
	return &Codec{boardSize: boardSize}
}

func (c *Codec) Encode(s domain.Session) ([]byte, error) {
	r := record{
		UserName:       s.UserName,
		UserMoney:      s.UserMoney,
		TotalIncome:    s.TotalIncome,
		TotalExpense:   s.TotalExpense,
		SelectedAvatar: s.SelectedAvatar,
		CurrentScreen:  s.CurrentScreen,
		BoardPosition:  s.BoardPosition,
		BoardHistory:   make([]boardEntry, 0, len(s.BoardHistory)),
		UserChoices:    s.UserChoices,
		DiaryText:      s.DiaryText,
		QuizAnswers:    make(map[string]string, len(s.QuizAnswers)),
		QuizCompleted:  s.QuizCompleted,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, e := range s.BoardHistory {
		r.BoardHistory = append(r.BoardHistory, boardEntry{ID: e.ID, Label: e.Label, Amount: e.Amount})
	}
	if r.UserChoices == nil {
		r.UserChoices = []domain.ChoiceRecord{}
	}
	for k, v := range s.QuizAnswers {
		r.QuizAnswers[string(k)] = v
	}
	return json.Marshal(r)
}

func (c *Codec) Decode(id string, data []byte) (domain.Session, []string, bool) {
	s := domain.NewSession(id, "")

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return s, nil, false
	}

	var skipped []string
	// field decodes one key into dst. It reports false when the key is
	// missing, does not parse, or fails valid.
	field := func(key string, dst any, valid func() bool) bool {
		raw, ok := fields[key]
		if !ok {
			return false
		}
		if err := json.Unmarshal(raw, dst); err != nil || (valid != nil && !valid()) {
			skipped = append(skipped, key)
			return false
		}
		return true
	}
	nonNegative := func(v *int) func() bool { return func() bool { return *v >= 0 } }

	var (
		name      string
		money     int
		income    int
		expense   int
		avatar    domain.Avatar
		screen    domain.Screen
		position  int
		history   []boardEntry
		choices   []domain.ChoiceRecord
		diary     string
		answers   map[string]string
		completed bool
		updated   time.Time
	)

	if field("userName", &name, nil) {
		s.UserName = name
	}
	if field("userMoney", &money, nonNegative(&money)) {
		s.UserMoney = money
	}
	if field("totalIncome", &income, nonNegative(&income)) {
		s.TotalIncome = income
	}
	if field("totalExpense", &expense, nonNegative(&expense)) {
		s.TotalExpense = expense
	}
	if field("selectedAvatar", &avatar, func() bool { return avatar == domain.AvatarNone || avatar.Valid() }) {
		s.SelectedAvatar = avatar
	}
	if field("currentScreen", &screen, func() bool { return screen.Valid() }) {
		s.CurrentScreen = screen
	}
	if field("boardPosition", &position, func() bool { return position >= 0 && position < c.boardSize }) {
		s.BoardPosition = position
	}
	if field("boardHistory", &history, nil) {
		for _, e := range history {
			s.BoardHistory = append(s.BoardHistory, domain.BoardEntry{ID: e.ID, Label: e.Label, Amount: e.Amount})
		}
	}
	if field("userChoices", &choices, func() bool { return validChoices(choices) }) {
		s.UserChoices = append(s.UserChoices, choices...)
	}
	if field("diaryText", &diary, nil) {
		s.DiaryText = diary
	}
	if field("quizAnswers", &answers, func() bool { return validAnswers(answers) }) {
		for k, v := range answers {
			s.QuizAnswers[domain.QuizBlank(k)] = v
		}
	}
	if field("quizCompleted", &completed, nil) {
		s.QuizCompleted = completed
	}
	if field("updatedAt", &updated, nil) {
		s.UpdatedAt = updated
	}
	return s, skipped, true
}

func validChoices(choices []domain.ChoiceRecord) bool {
	if len(choices) > domain.SituationCount {
		return false
	}
	seen := make(map[int]bool, len(choices))
	for _, c := range choices {
		if seen[c.SituationID] || !c.Category.Valid() {
			return false
		}
		seen[c.SituationID] = true
	}
	return true
}

func validAnswers(answers map[string]string) bool {
	if len(answers) > domain.QuizBlankCount {
		return false
	}
	for k, word := range answers {
		if !domain.QuizBlank(k).Valid() || word == "" {
			return false
		}
	}
	return true
}
