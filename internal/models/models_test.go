package models

import (
	"strings"
	"testing"
)

func TestIsServerID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "canonical uuid", id: "3b2e1a9c-5d4f-4e6a-8b7c-9d0e1f2a3b4c", want: true},
		{name: "uppercase uuid", id: "3B2E1A9C-5D4F-4E6A-8B7C-9D0E1F2A3B4C", want: false},
		{name: "braced uuid", id: "{3b2e1a9c-5d4f-4e6a-8b7c-9d0e1f2a3b4c}", want: false},
		{name: "urn uuid", id: "urn:uuid:3b2e1a9c-5d4f-4e6a-8b7c-9d0e1f2a3b4c", want: false},
		{name: "no hyphens", id: "3b2e1a9c5d4f4e6a8b7c9d0e1f2a3b4c", want: false},
		{name: "fallback id", id: "jjal-001", want: false},
		{name: "empty", id: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsServerID(tt.id); got != tt.want {
				t.Errorf("IsServerID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("Categories() entry %q is not Valid()", c)
		}
	}
	if CategoryAll.Valid() {
		t.Error("the 전체 sentinel must not be storable")
	}
	if Category("무명").Valid() {
		t.Error("unknown category reported Valid()")
	}
}

func TestEmotionValid(t *testing.T) {
	if !Emotion("웃김").Valid() {
		t.Error("웃김 is not Valid()")
	}
	if Emotion("행복").Valid() {
		t.Error("unknown emotion reported Valid()")
	}
}

func validUpload() UploadInput {
	return UploadInput{
		Title:    "무야호",
		Quote:    "그만큼 신나시는 거지",
		Category: "유재석",
		Tags:     []Emotion{"웃김"},
	}
}

func TestUploadInputValidate(t *testing.T) {
	if err := validUpload().Validate(); err != nil {
		t.Fatalf("valid input failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{name: "empty title", mutate: func(in *UploadInput) { in.Title = "" }},
		{name: "whitespace title", mutate: func(in *UploadInput) { in.Title = "   " }},
		{name: "title too long", mutate: func(in *UploadInput) { in.Title = strings.Repeat("가", 101) }},
		{name: "empty quote", mutate: func(in *UploadInput) { in.Quote = "" }},
		{name: "quote too long", mutate: func(in *UploadInput) { in.Quote = strings.Repeat("가", 501) }},
		{name: "sentinel category", mutate: func(in *UploadInput) { in.Category = CategoryAll }},
		{name: "unknown category", mutate: func(in *UploadInput) { in.Category = "무명" }},
		{name: "no tags", mutate: func(in *UploadInput) { in.Tags = nil }},
		{name: "unknown tag", mutate: func(in *UploadInput) { in.Tags = []Emotion{"행복"} }},
		{name: "duplicate tag", mutate: func(in *UploadInput) { in.Tags = []Emotion{"웃김", "웃김"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validUpload()
			tt.mutate(&in)
			if err := in.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestUploadInputValidateBoundaries(t *testing.T) {
	in := validUpload()
	in.Title = strings.Repeat("가", 100)
	in.Quote = strings.Repeat("가", 500)
	if err := in.Validate(); err != nil {
		t.Errorf("max-length input failed: %v", err)
	}
}

func TestSignUpInputValidate(t *testing.T) {
	valid := SignUpInput{Email: "fan@jjal.example.com", Password: "secret1", Nickname: "무도팬"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SignUpInput)
	}{
		{name: "bad email", mutate: func(in *SignUpInput) { in.Email = "not-an-email" }},
		{name: "short password", mutate: func(in *SignUpInput) { in.Password = "12345" }},
		{name: "short nickname", mutate: func(in *SignUpInput) { in.Nickname = "무" }},
		{name: "long nickname", mutate: func(in *SignUpInput) { in.Nickname = strings.Repeat("무", 21) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
