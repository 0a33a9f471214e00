package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xivtools/nosol/internal/chat"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{input: "normal", want: CategoryNormal, ok: true},
		{input: "rmt_gil", want: CategoryRMTGil, ok: true},
		{input: "phish", want: CategoryPhish, ok: true},
		{input: "RMT_GIL", ok: false},
		{input: "", ok: false},
		{input: "spam", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnavailable(t *testing.T) {
	_, _, err := Unavailable{}.Classify(context.Background(), chat.ChannelSay, "hello there friend")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Classify() error = %v, want ErrUnavailable", err)
	}
}

func TestNewWithoutKey(t *testing.T) {
	logger := zerolog.Nop()

	for _, key := range []string{"", "mock"} {
		c := New(Options{APIKey: key}, &logger)

		if _, ok := c.(Unavailable); !ok {
			t.Errorf("New() with key %q = %T, want Unavailable", key, c)
		}
	}
}

func TestNewWithKey(t *testing.T) {
	logger := zerolog.Nop()

	c := New(Options{APIKey: "sk-test", Model: "gpt-4o-mini"}, &logger)

	if _, ok := c.(*openaiClassifier); !ok {
		t.Errorf("New() = %T, want *openaiClassifier", c)
	}
}
