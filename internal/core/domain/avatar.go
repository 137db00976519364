package domain

// Avatar is the character a player picks during onboarding.
type Avatar string

const (
	AvatarNone   Avatar = ""
	AvatarJjangi Avatar = "jjangi"
	AvatarEongi  Avatar = "eongi"
	AvatarRami   Avatar = "rami"
)

// Avatars lists the selectable avatars in display order (A, B, C).
var Avatars = []Avatar{AvatarJjangi, AvatarEongi, AvatarRami}

// AvatarProfile is the static card shown on the onboarding screen.
type AvatarProfile struct {
	ID    Avatar `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Valid reports whether a names a selectable avatar.
func (a Avatar) Valid() bool {
	switch a {
	case AvatarJjangi, AvatarEongi, AvatarRami:
		return true
	}
	return false
}

// Profile returns the avatar card. The zero profile is returned for AvatarNone.
func (a Avatar) Profile() AvatarProfile {
	switch a {
	case AvatarJjangi:
		return AvatarProfile{ID: a, Name: "짱이", Emoji: "🦗", Title: "소비왕", Desc: "오늘 즐겁게 쓰는 게 제일 좋은 소비왕"}
	case AvatarEongi:
		return AvatarProfile{ID: a, Name: "엉이", Emoji: "🦉", Title: "투자왕", Desc: "내일을 위해 씨앗을 심는 투자왕"}
	case AvatarRami:
		return AvatarProfile{ID: a, Name: "람이", Emoji: "🐿️", Title: "저축왕", Desc: "튼튼한 금고를 만드는 저축왕"}
	}
	return AvatarProfile{}
}

// Emoji falls back to the first avatar's emoji when none is selected.
func (a Avatar) Emoji() string {
	if !a.Valid() {
		return AvatarJjangi.Profile().Emoji
	}
	return a.Profile().Emoji
}
