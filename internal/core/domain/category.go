package domain

// Category is one of the three spending philosophies a choice belongs to.
type Category string

const (
	CategoryPleasure Category = "pleasure_spending"
	CategoryFuture   Category = "future_investment"
	CategorySaving   Category = "saving_and_giving"
)

// Categories is the fixed enumeration order. Ties in scoring resolve to the
// earliest category in this slice.
var Categories = []Category{CategoryPleasure, CategoryFuture, CategorySaving}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPleasure, CategoryFuture, CategorySaving:
		return true
	}
	return false
}

// Label returns the Korean name shown in the account book.
func (c Category) Label() string {
	switch c {
	case CategoryPleasure:
		return "행복 소비"
	case CategoryFuture:
		return "미래 투자"
	case CategorySaving:
		return "성실 저축 & 나눔"
	}
	return ""
}

// Persona is the identity assigned from a player's dominant category.
type Persona struct {
	Avatar  Avatar `json:"avatar"`
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// PersonaFor maps a category to its persona. Unknown categories map to the
// saving persona, mirroring the final branch of the result screen.
func PersonaFor(c Category) Persona {
	switch c {
	case CategoryPleasure:
		return Persona{
			Avatar:  AvatarJjangi,
			Name:    "짱이형",
			Emoji:   "🦗",
			Title:   "에너지 넘치는 소비왕",
			Message: "지금 이 순간의 행복을 아주 소중하게 생각하는 친구군요! 신나게 쓴 만큼 오늘 하루도 즐거웠나요? 나중에 더 큰 행복을 위해 '참기' 마법도 조금씩 연습해봐요!",
		}
	case CategoryFuture:
		return Persona{
			Avatar:  AvatarEongi,
			Name:    "엉이형",
			Emoji:   "🦉",
			Title:   "똑똑한 미래 설계자",
			Message: "멀리 내다보는 눈을 가졌네요! 나를 성장시키는 일에 돈을 쓸 줄 아는 당신은 진정한 투자왕이에요. 여러분의 파란색 점수는 잠시 후 '복리 마법'을 만나 엄청나게 커질 거예요!",
		}
	default:
		return Persona{
			Avatar:  AvatarRami,
			Name:    "람이형",
			Emoji:   "🐿️",
			Title:   "든든하고 따뜻한 저축왕",
			Message: "와! 튼튼한 금고에 돈을 차곡차곡 모으고, 남을 돕는 따뜻한 마음까지 가졌군요. 성실하게 모은 돈은 절대 배신하지 않아요. 여러분은 주변을 행복하게 만드는 따뜻한 부자가 될 거예요!",
		}
	}
}
