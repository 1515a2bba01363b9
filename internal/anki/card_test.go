package anki

import (
	"strings"
	"testing"
)

func TestBuildFront(t *testing.T) {
	tests := []struct {
		name      string
		word      string
		pos       string
		imageName string
		audioName string
		want      string
	}{
		{
			name:      "with audio",
			word:      "cat",
			pos:       "noun",
			imageName: "cat.jpg",
			audioName: "cat.mp3",
			want:      `<img src="cat.jpg"/><br><b>cat</b> <i>(noun)</i><br>[sound:cat.mp3]`,
		},
		{
			name:      "without audio",
			word:      "run",
			pos:       "verb",
			imageName: "run.jpg",
			want:      `<img src="run.jpg"/><br><b>run</b> <i>(verb)</i>`,
		},
		{
			name:      "vietnamese label",
			word:      "quickly",
			pos:       "trạng từ",
			imageName: "quickly.jpg",
			want:      `<img src="quickly.jpg"/><br><b>quickly</b> <i>(trạng từ)</i>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFront(tt.word, tt.pos, tt.imageName, tt.audioName)
			if got != tt.want {
				t.Errorf("BuildFront() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFront_EscapesWord(t *testing.T) {
	got := BuildFront("<script>alert(1)</script>", "other", "x.jpg", "")

	if strings.Contains(got, "<script>") {
		t.Errorf("Markup from the word must not survive: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("Expected escaped word in %q", got)
	}
	if !strings.HasPrefix(got, `<img src="x.jpg"/>`) {
		t.Errorf("Expected image first, got %q", got)
	}
}

func TestReferencedMedia(t *testing.T) {
	front := BuildFront("cat", "noun", "cat.jpg", "cat.mp3")
	got := referencedMedia(front)

	if len(got) != 2 || got[0] != "cat.jpg" || got[1] != "cat.mp3" {
		t.Errorf("referencedMedia() = %v", got)
	}

	if got := referencedMedia(BuildFront("dog", "noun", "dog.jpg", "")); len(got) != 1 {
		t.Errorf("Expected only the image reference, got %v", got)
	}
}

func TestStripHTML(t *testing.T) {
	front := BuildFront("cat", "noun", "cat.jpg", "cat.mp3")
	if got := stripHTML(front); got != "cat (noun)" {
		t.Errorf("stripHTML() = %q, want %q", got, "cat (noun)")
	}
}
