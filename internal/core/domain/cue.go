package domain

// Cue identifies a sound effect the client should play.
type Cue string

const (
	CueCoin        Cue = "coin"
	CueSpend       Cue = "spend"
	CuePopup       Cue = "popup"
	CueCertificate Cue = "certificate"
	CueFail        Cue = "fail"
)

// Overlay is a one-shot informational popup raised on entering a step.
type Overlay string

const (
	OverlayNone            Overlay = ""
	OverlayWelcome         Overlay = "welcome"
	OverlayGraduation      Overlay = "graduation"
	OverlayChoiceWelcome   Overlay = "choice_welcome"
	OverlayChoiceEnd       Overlay = "choice_end"
	OverlayCompoundWelcome Overlay = "compound_welcome"
	OverlayCompoundPraise  Overlay = "compound_praise"
)

// Next returns the overlay that follows o once it is dismissed.
func (o Overlay) Next() Overlay {
	if o == OverlayGraduation {
		return OverlayChoiceWelcome
	}
	return OverlayNone
}
