// Package content holds the static tables the game is played on: the board
// cells, the binary-choice situations and the knowledge-check prompts.
//
// The default pack is embedded at build time; an alternative pack can be
// loaded from disk for localisation as long as it keeps the same shape.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/richschool/compound-school/internal/core/domain"
)

//go:embed content.yaml
var embedded []byte

// ErrInvalidContent wraps every validation failure.
var ErrInvalidContent = errors.New("invalid content")

// Cell is one square on the board.
type Cell struct {
	Label  string `yaml:"label" json:"label"`
	Amount int    `yaml:"amount" json:"amount"`
}

// Option is one side of a situation card.
type Option struct {
	ID       string          `yaml:"id" json:"id"`
	Label    string          `yaml:"label" json:"label"`
	Cost     int             `yaml:"cost" json:"cost"`
	Reward   int             `yaml:"reward" json:"reward"`
	BackText string          `yaml:"back_text" json:"back_text"`
	Emoji    string          `yaml:"emoji" json:"emoji"`
	Category domain.Category `yaml:"category" json:"category"`
}

// Situation is a binary-choice scenario.
type Situation struct {
	ID      int      `yaml:"id" json:"id"`
	Title   string   `yaml:"title" json:"title"`
	Options []Option `yaml:"options" json:"options"`
}

// Option looks up an option by id.
func (s Situation) Option(id string) (Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Prompt is a fill-in-the-blank sentence.
type Prompt struct {
	Blank  domain.QuizBlank `yaml:"blank" json:"blank"`
	Text   string           `yaml:"text" json:"text"`
	Suffix string           `yaml:"suffix" json:"suffix"`
	Answer string           `yaml:"answer" json:"-"`
}

// Content is a complete, validated content pack.
type Content struct {
	Board      []Cell      `yaml:"board"`
	Situations []Situation `yaml:"situations"`
	Quiz       []Prompt    `yaml:"quiz"`
}

// Answer returns the expected word for a blank.
func (c *Content) Answer(b domain.QuizBlank) (string, bool) {
	for _, p := range c.Quiz {
		if p.Blank == b {
			return p.Answer, true
		}
	}
	return "", false
}

// Words returns the draggable word bank in prompt order.
func (c *Content) Words() []string {
	words := make([]string, 0, len(c.Quiz))
	for _, p := range c.Quiz {
		words = append(words, p.Answer)
	}
	return words
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
)

// Default returns the embedded content pack. It panics if the embedded file
// is malformed, which can only happen at build time.
func Default() *Content {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("content: embedded pack: %v", err))
		}
		defaultContent = c
	})
	return defaultContent
}

// Load returns the pack at path, or the embedded pack when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML content pack.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if len(c.Board) != domain.BoardSize {
		return fmt.Errorf("%w: board has %d cells, want %d", ErrInvalidContent, len(c.Board), domain.BoardSize)
	}
	if len(c.Situations) != domain.SituationCount {
		return fmt.Errorf("%w: %d situations, want %d", ErrInvalidContent, len(c.Situations), domain.SituationCount)
	}

	seen := make(map[int]struct{}, len(c.Situations))
	for i, s := range c.Situations {
		if s.ID < 1 {
			return fmt.Errorf("%w: situation[%d] has id %d, ids start at 1", ErrInvalidContent, i, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate situation id %d", ErrInvalidContent, s.ID)
		}
		seen[s.ID] = struct{}{}

		if len(s.Options) != 2 {
			return fmt.Errorf("%w: situation[%d] has %d options, want 2", ErrInvalidContent, i, len(s.Options))
		}
		if s.Options[0].ID == s.Options[1].ID {
			return fmt.Errorf("%w: situation[%d] repeats option id %q", ErrInvalidContent, i, s.Options[0].ID)
		}
		for _, o := range s.Options {
			switch {
			case o.Cost > 0:
				return fmt.Errorf("%w: situation[%d] option %q has positive cost", ErrInvalidContent, i, o.ID)
			case o.Reward < 0:
				return fmt.Errorf("%w: situation[%d] option %q has negative reward", ErrInvalidContent, i, o.ID)
			case !o.Category.Valid():
				return fmt.Errorf("%w: situation[%d] option %q has category %q", ErrInvalidContent, i, o.ID, o.Category)
			}
		}
	}

	if len(c.Quiz) != domain.QuizBlankCount {
		return fmt.Errorf("%w: %d quiz prompts, want %d", ErrInvalidContent, len(c.Quiz), domain.QuizBlankCount)
	}
	blanks := make(map[domain.QuizBlank]struct{}, len(c.Quiz))
	for _, p := range c.Quiz {
		if !p.Blank.Valid() {
			return fmt.Errorf("%w: unknown quiz blank %q", ErrInvalidContent, p.Blank)
		}
		if _, dup := blanks[p.Blank]; dup {
			return fmt.Errorf("%w: duplicate quiz blank %q", ErrInvalidContent, p.Blank)
		}
		if p.Answer == "" {
			return fmt.Errorf("%w: quiz blank %q has no answer", ErrInvalidContent, p.Blank)
		}
		blanks[p.Blank] = struct{}{}
	}
	return nil
}
