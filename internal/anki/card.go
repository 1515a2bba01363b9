package anki

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Card represents a single Anki flashcard
type Card struct {
	Front     string // HTML for the question side
	Back      string // Translation shown on the answer side
	Word      string // The English word the card was built from
	ImageFile string // Path to the image file (base name is referenced by Front)
	AudioFile string // Path to the audio file, empty when there is no audio
}

// frontPolicy only lets the card markup through
var frontPolicy = newFrontPolicy()

func newFrontPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "br")
	p.AllowAttrs("src").OnElements("img")
	p.AllowRelativeURLs(true)
	return p
}

// BuildFront renders the front side of a card:
//
//	<img src="IMG"/><br><b>WORD</b> <i>(POS)</i>[<br>[sound:AUDIO]]
//
// The audio reference is only added when audioName is not empty.
func BuildFront(word, pos, imageName, audioName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<img src="%s"/><br><b>%s</b> <i>(%s)</i>`,
		html.EscapeString(imageName), html.EscapeString(word), html.EscapeString(pos))
	if audioName != "" {
		b.WriteString("<br>" + SoundTag(audioName))
	}
	return frontPolicy.Sanitize(b.String())
}

// SoundTag returns the Anki sound reference for a media name
func SoundTag(name string) string {
	return fmt.Sprintf("[sound:%s]", name)
}
