package models

import (
	"strings"
	"testing"
	"time"
)

func TestSessionTitle(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

	cases := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "short prompt kept whole",
			prompt: "sore throat",
			want:   "sore throat - Daily Chat: 2026-03-14",
		},
		{
			name:   "long prompt truncated with ellipsis",
			prompt: "I have been feeling dizzy every morning for a week",
			want:   "I have been feeling dizzy ever... - Daily Chat: 2026-03-14",
		},
		{
			name:   "exactly thirty characters not truncated",
			prompt: strings.Repeat("a", 30),
			want:   strings.Repeat("a", 30) + " - Daily Chat: 2026-03-14",
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   " - Daily Chat: 2026-03-14",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionTitle(tc.prompt, day); got != tc.want {
				t.Errorf("SessionTitle(%q) = %q, want %q", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestSessionTitleMultibyte(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	prompt := strings.Repeat("é", 40)

	got := SessionTitle(prompt, day)
	want := strings.Repeat("é", 30) + "... - Daily Chat: 2026-03-14"
	if got != want {
		t.Errorf("SessionTitle truncated mid-rune: got %q, want %q", got, want)
	}
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 42, 7, 123, time.Local)
	start, end := DayWindow(at)

	wantStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2026, 3, 14, 23, 59, 59, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}

	// Midnight itself belongs to the day it starts.
	start2, _ := DayWindow(wantStart)
	if !start2.Equal(wantStart) {
		t.Errorf("midnight should map to its own day, got %v", start2)
	}
}
