package domain

// Screen represents the lifecycle state of a session. Values match the keys
// persisted by the browser client so existing snapshots keep restoring.
type Screen string

const (
	ScreenOnboarding  Screen = "avatar"
	ScreenBoardGame   Screen = "game"
	ScreenChoice      Screen = "choice"
	ScreenAccountBook Screen = "accountBook"
	ScreenResult      Screen = "result"
	ScreenCompound    Screen = "compound"
	ScreenCertificate Screen = "certificate"
)

// Screens lists every screen in playthrough order.
var Screens = []Screen{
	ScreenOnboarding,
	ScreenBoardGame,
	ScreenChoice,
	ScreenAccountBook,
	ScreenResult,
	ScreenCompound,
	ScreenCertificate,
}

// validTransitions defines the allowed screen machine transitions. Reset to
// onboarding is handled separately and is always allowed.
var validTransitions = map[Screen][]Screen{
	ScreenOnboarding:  {ScreenBoardGame},
	ScreenBoardGame:   {ScreenChoice},
	ScreenChoice:      {ScreenAccountBook},
	ScreenAccountBook: {ScreenResult},
	ScreenResult:      {ScreenCompound, ScreenAccountBook},
	ScreenCompound:    {ScreenCertificate},
}

// CanTransitionTo reports whether a transition from the current screen to next is valid.
func (s Screen) CanTransitionTo(next Screen) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}

// Stage is the short progress label shown in the header for a screen.
type Stage struct {
	Step  string `json:"step"`
	Title string `json:"title"`
}

// StageOf returns the header label for a screen.
func StageOf(s Screen) Stage {
	switch s {
	case ScreenOnboarding:
		return Stage{Step: "준비", Title: "입학 준비"}
	case ScreenBoardGame:
		return Stage{Step: "1단계", Title: "종잣돈 모으기"}
	case ScreenChoice:
		return Stage{Step: "2단계", Title: "선택의 갈림길"}
	case ScreenAccountBook:
		return Stage{Step: "3단계", Title: "용돈기입장 확인"}
	case ScreenResult:
		return Stage{Step: "최종", Title: "정체성 리포트"}
	case ScreenCompound:
		return Stage{Step: "4단계", Title: "복리 마법"}
	case ScreenCertificate:
		return Stage{Step: "수료", Title: "부자학교 수료"}
	default:
		return Stage{}
	}
}
