package engine

import (
	"fmt"

	"github.com/richschool/compound-school/internal/content"
	"github.com/richschool/compound-school/internal/core/domain"
)

// QuizPrompt is a blank as the renderer shows it.
type QuizPrompt struct {
	Blank  domain.QuizBlank `json:"blank"`
	Text   string           `json:"text"`
	Suffix string           `json:"suffix"`
	Filled string           `json:"filled,omitempty"`
}

// Display holds preformatted strings for the header and summary cards.
type Display struct {
	Money    string `json:"money"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Baseline string `json:"baseline,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Gap      string `json:"gap,omitempty"`
	Rate     string `json:"rate,omitempty"`
}

// Controls tells the renderer which buttons are enabled.
type Controls struct {
	CanEnroll      bool `json:"can_enroll"`
	CanRoll        bool `json:"can_roll"`
	CanGraduate    bool `json:"can_graduate"`
	CanChoose      bool `json:"can_choose"`
	CanViewBook    bool `json:"can_view_account_book"`
	CanViewResult  bool `json:"can_view_result"`
	CanOpenQuiz    bool `json:"can_open_quiz"`
	CanClaim       bool `json:"can_claim_certificate"`
	CanDownloadCrt bool `json:"can_download_certificate"`
}

// View is everything the renderer needs to draw the current screen.
type View struct {
	Session     domain.Session         `json:"session"`
	Stage       domain.Stage           `json:"stage"`
	Avatar      domain.AvatarProfile   `json:"avatar"`
	Avatars     []domain.AvatarProfile `json:"avatars,omitempty"`
	Board       []content.Cell         `json:"board,omitempty"`
	Situation   *content.Situation     `json:"situation,omitempty"`
	Scores      []Score                `json:"scores"`
	Dominant    domain.Category        `json:"dominant"`
	Persona     domain.Persona         `json:"persona"`
	AvatarMatch bool                   `json:"avatar_match"`
	Reflection  string                 `json:"reflection,omitempty"`
	AccountHint string                 `json:"account_hint,omitempty"`
	Projection  *Projection            `json:"projection,omitempty"`
	Quiz        []QuizPrompt           `json:"quiz,omitempty"`
	Words       []string               `json:"words,omitempty"`
	Display     Display                `json:"display"`
	Controls    Controls               `json:"controls"`
	Cues        []domain.Cue           `json:"cues"`
}

// BuildView derives the renderer input from a session.
func (e *Engine) BuildView(s domain.Session) View {
	v := View{
		Session: s,
		Stage:   domain.StageOf(s.CurrentScreen),
		Avatar:  s.SelectedAvatar.Profile(),
		Scores:  Scores(s.UserChoices),
		Display: Display{
			Money:   Won(s.UserMoney),
			Income:  Won(s.TotalIncome),
			Expense: Won(s.TotalExpense),
		},
		Cues: []domain.Cue{},
	}
	v.Dominant = DominantCategory(s.UserChoices)
	v.Persona = domain.PersonaFor(v.Dominant)
	v.AvatarMatch = s.SelectedAvatar == v.Persona.Avatar

	switch s.CurrentScreen {
	case domain.ScreenOnboarding:
		for _, a := range domain.Avatars {
			v.Avatars = append(v.Avatars, a.Profile())
		}
	case domain.ScreenBoardGame:
		v.Board = e.content.Board
	case domain.ScreenChoice:
		if sit, ok := e.CurrentSituation(s); ok {
			v.Situation = &sit
		}
	case domain.ScreenAccountBook:
		v.AccountHint = accountHint(s.UserChoices)
	case domain.ScreenResult:
		v.Reflection = reflection(s.SelectedAvatar, v.Persona)
	case domain.ScreenCompound:
		p := Project(s.Compound.Principal, s.Compound.Rate, s.Compound.Years)
		v.Projection = &p
		v.Display.Baseline = WonFloor(p.Baseline)
		v.Display.Scenario = WonFloor(p.Scenario)
		v.Display.Gap = WonFloor(p.Gap)
		v.Display.Rate = Percent(p.Rate)
		if s.Compound.QuizOpen {
			v.Quiz, v.Words = e.quizView(s)
		}
	}

	v.Controls = Controls{
		CanEnroll:      s.CurrentScreen == domain.ScreenOnboarding && CanEnroll(s),
		CanRoll:        CanRoll(s),
		CanGraduate:    s.CurrentScreen == domain.ScreenBoardGame && !s.Roll.Rolling && s.UserMoney >= domain.GoalAmount,
		CanChoose:      s.CurrentScreen == domain.ScreenChoice && s.FlippedOption == "" && s.ChoiceStep < len(e.content.Situations),
		CanViewBook:    s.CurrentScreen == domain.ScreenChoice && e.ChoicesDone(s),
		CanViewResult:  s.CurrentScreen == domain.ScreenAccountBook && DiaryReady(s.DiaryText),
		CanOpenQuiz:    s.CurrentScreen == domain.ScreenCompound && s.Compound.Years == domain.MaxYears,
		CanClaim:       s.CurrentScreen == domain.ScreenCompound && s.QuizCompleted,
		CanDownloadCrt: s.CurrentScreen == domain.ScreenCertificate,
	}
	return v
}

func (e *Engine) quizView(s domain.Session) ([]QuizPrompt, []string) {
	prompts := make([]QuizPrompt, 0, len(e.content.Quiz))
	used := make(map[string]bool, len(s.QuizAnswers))
	for _, p := range e.content.Quiz {
		filled := s.QuizAnswers[p.Blank]
		if filled != "" {
			used[filled] = true
		}
		prompts = append(prompts, QuizPrompt{Blank: p.Blank, Text: p.Text, Suffix: p.Suffix, Filled: filled})
	}
	words := make([]string, 0, len(prompts))
	for _, w := range e.content.Words() {
		if !used[w] {
			words = append(words, w)
		}
	}
	return prompts, words
}

func accountHint(choices []domain.ChoiceRecord) string {
	if CategoryCount(choices, domain.CategoryFuture) >= 2 {
		return "미래를 준비하는 멋진 투자자시군요!"
	}
	return "지금의 행복도 좋지만, 조금 더 저축해보는 건 어떨까요?"
}

func reflection(chosen domain.Avatar, p domain.Persona) string {
	name := chosen.Profile().Name
	if chosen == p.Avatar {
		return fmt.Sprintf("와! 처음 선택한 아바타(%s)와 실제 행동이 똑같아요! 자신을 아주 잘 알고 있군요!", name)
	}
	return fmt.Sprintf("당신은 처음엔 스스로를 %s라고 생각했지만, 실제 행동은 누구보다 %s인 %s 스타일이었네요!", name, p.Title, p.Name)
}

// CertificateFileName is the download name of the certificate image.
func CertificateFileName(userName string) string {
	if userName == "" {
		userName = "어린이"
	}
	return fmt.Sprintf("부자학교_수료증_%s.png", userName)
}
