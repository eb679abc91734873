package youtube

import (
	"testing"
)

func TestPickTrackManualPreferredInHintedLanguage(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "en", Kind: "asr"},
		{LanguageCode: "en"},
		{LanguageCode: "fr"},
	}
	got, ok := PickTrack(tracks, "en")
	if !ok || got.LanguageCode != "en" || got.Auto() {
		t.Errorf("got %+v, want manual en track", got)
	}
}

func TestPickTrackAutoWhenOnlyMatch(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "ja", Kind: "asr"},
		{LanguageCode: "en"},
	}
	got, ok := PickTrack(tracks, "ja")
	if !ok || got.LanguageCode != "ja" {
		t.Errorf("got %+v, want asr ja track", got)
	}
}

func TestPickTrackBaseLangMatch(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "zh"},
		{LanguageCode: "en"},
	}
	got, ok := PickTrack(tracks, "zh-CN")
	if !ok || got.LanguageCode != "zh" {
		t.Errorf("hint zh-CN: got %+v, want zh track", got)
	}
}

func TestPickTrackNoHintPrefersManual(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "ko", Kind: "asr"},
		{LanguageCode: "de"},
	}
	got, ok := PickTrack(tracks, "")
	if !ok || got.LanguageCode != "de" {
		t.Errorf("got %+v, want manual de track", got)
	}
}

func TestPickTrackFallsBackToFirst(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "ko", Kind: "asr"},
		{LanguageCode: "pt", Kind: "asr"},
	}
	got, ok := PickTrack(tracks, "sv")
	if !ok || got.LanguageCode != "ko" {
		t.Errorf("got %+v, want first track", got)
	}
}

func TestPickTrackEmpty(t *testing.T) {
	if _, ok := PickTrack(nil, "en"); ok {
		t.Error("empty track list returned ok")
	}
}

func TestParseTimedText(t *testing.T) {
	xmlBody := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">hello &amp; welcome</text>
  <text start="2.5" dur="3.0">to the &lt;b&gt;show&lt;/b&gt;</text>
  <text start="5.5" dur="1.0"></text>
</transcript>`)

	got, err := parseTimedText(xmlBody)
	if err != nil {
		t.Fatalf("parseTimedText: %v", err)
	}
	want := "hello & welcome to the show"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseTimedTextInvalid(t *testing.T) {
	if _, err := parseTimedText([]byte("not xml at all <")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1};var x`, `{"a":1}`},
		{`{"a":{"b":"}"}} trailing`, `{"a":{"b":"}"}}`},
		{`{"esc":"\""}x`, `{"esc":"\""}`},
		{`not json`, ""},
		{`{"unterminated":`, ""},
	}
	for _, tt := range tests {
		got := string(extractJSON([]byte(tt.in)))
		if got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNeedsPoToken(t *testing.T) {
	if !needsPoToken("https://yt/api/timedtext?v=x&exp=xpe&lang=en") {
		t.Error("xpe track not detected")
	}
	if needsPoToken("https://yt/api/timedtext?v=x&lang=en") {
		t.Error("plain track flagged")
	}
}
