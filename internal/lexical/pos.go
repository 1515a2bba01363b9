package lexical

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Category is a coarse part-of-speech class
type Category int

const (
	Other Category = iota
	Noun
	Verb
	Adjective
	Adverb
)

var categoryNames = map[Category]string{
	Noun:      "noun",
	Verb:      "verb",
	Adjective: "adjective",
	Adverb:    "adverb",
	Other:     "other",
}

var vietnameseLabels = map[Category]string{
	Noun:      "danh từ",
	Verb:      "động từ",
	Adjective: "tính từ",
	Adverb:    "trạng từ",
	Other:     "khác",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[Other]
}

// Label returns the display label in the given language ("en" or "vi").
// Unknown languages fall back to English.
func (c Category) Label(lang string) string {
	if lang == "vi" {
		if label, ok := vietnameseLabels[c]; ok {
			return label
		}
		return vietnameseLabels[Other]
	}
	return c.String()
}

// Categories lists every category
func Categories() []Category {
	return []Category{Noun, Verb, Adjective, Adverb, Other}
}

// FromTag maps a Penn Treebank tag to a category by prefix
func FromTag(tag string) Category {
	switch {
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	case strings.HasPrefix(tag, "RB"):
		return Adverb
	default:
		return Other
	}
}

// Tagger determines the part of speech of a single word
type Tagger interface {
	Tag(word string) Category
}

// ProseTagger tags words with the prose perceptron model
type ProseTagger struct {
	model *prose.Model
}

// NewProseTagger loads the perceptron model once; every Tag call reuses it
func NewProseTagger() *ProseTagger {
	doc, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return &ProseTagger{}
	}
	return &ProseTagger{model: doc.Model}
}

// Tag returns the category of the word's first token.
// Tagging problems map to Other.
func (p *ProseTagger) Tag(word string) Category {
	tag := p.RawTag(word)
	return FromTag(tag)
}

// RawTag returns the Penn Treebank tag of the first token, or "" if the word
// could not be tagged
func (p *ProseTagger) RawTag(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}

	opts := []prose.DocOpt{
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	}
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}

	doc, err := prose.NewDocument(word, opts...)
	if err != nil {
		return ""
	}

	tokens := doc.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].Tag
}
