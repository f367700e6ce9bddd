package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/ytclip/ytclip/pkg/domain/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "allowed characters kept", input: "My Video_v2.0-final", want: "My Video_v2.0-final"},
		{name: "slash", input: "AC/DC live", want: "AC_DC live"},
		{name: "punctuation", input: "What?! (Official)", want: "What__ _Official_"},
		{name: "colon", input: "Part 1: Intro", want: "Part 1_ Intro"},
		{name: "multibyte rune becomes one underscore", input: "café", want: "caf_"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, model.SanitizeFilename(tt.input), tt.want)
		})
	}
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"a/b\\c:d*e?f\"g<h>i|j",
		"日本語のタイトル",
		"emoji 🎬 clip [HD]",
		"tabs\tand\nnewlines",
	}

	for _, input := range inputs {
		once := model.SanitizeFilename(input)
		gt.Equal(t, model.SanitizeFilename(once), once)
	}
}

func TestMediaFileName(t *testing.T) {
	gt.Equal(t, model.MediaFileName("Hello: World"), "Hello_ World.mp4")
}
