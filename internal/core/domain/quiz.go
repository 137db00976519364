package domain

// QuizBlank identifies one of the three fill-in-the-blank prompts.
type QuizBlank string

const (
	BlankTime     QuizBlank = "blank1"
	BlankRate     QuizBlank = "blank2"
	BlankSnowball QuizBlank = "blank3"
)

// QuizBlanks lists the blanks in prompt order.
var QuizBlanks = []QuizBlank{BlankTime, BlankRate, BlankSnowball}

// Valid reports whether b is a known blank.
func (b QuizBlank) Valid() bool {
	switch b {
	case BlankTime, BlankRate, BlankSnowball:
		return true
	}
	return false
}
