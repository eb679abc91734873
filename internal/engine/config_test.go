package engine

import "testing"

func TestInitDefaults(t *testing.T) {
	Init(Config{OpenAIAPIKey: "sk-test"})

	if Cfg.MaxConcurrentVideos != 3 {
		t.Errorf("MaxConcurrentVideos = %d, want 3", Cfg.MaxConcurrentVideos)
	}
	if Cfg.MaxChunkChars != 48000 {
		t.Errorf("MaxChunkChars = %d, want 48000", Cfg.MaxChunkChars)
	}
	if Cfg.WhisperAPIKey != "sk-test" {
		t.Errorf("WhisperAPIKey = %q, want the OpenAI key", Cfg.WhisperAPIKey)
	}
	if Cfg.HTTPClient == nil {
		t.Error("HTTPClient not defaulted")
	}
}

func TestInitKeepsExplicitValues(t *testing.T) {
	Init(Config{
		MaxConcurrentVideos: 7,
		WhisperAPIKey:       "wk",
		OpenAIAPIKey:        "ok",
	})

	if Cfg.MaxConcurrentVideos != 7 {
		t.Errorf("MaxConcurrentVideos = %d, want 7", Cfg.MaxConcurrentVideos)
	}
	if Cfg.WhisperAPIKey != "wk" {
		t.Errorf("WhisperAPIKey = %q, want explicit key", Cfg.WhisperAPIKey)
	}
}
