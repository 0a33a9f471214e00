package chat

import "testing"

func TestChannelIsBattle(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		battle  bool
	}{
		{name: "say", channel: ChannelSay, battle: false},
		{name: "shout", channel: ChannelShout, battle: false},
		{name: "party", channel: ChannelParty, battle: false},
		{name: "free company", channel: ChannelFreeCompany, battle: false},
		{name: "none", channel: ChannelNone, battle: false},
		{name: "damage dealt", channel: Channel(0x29), battle: true},
		{name: "detrimental removed", channel: Channel(0x31), battle: true},
		{name: "healing", channel: Channel(0x2d), battle: true},
		{name: "damage with source bits", channel: Channel(0x0a29), battle: true},
		{name: "just above battle range", channel: Channel(0x32), battle: false},
		{name: "just below battle range", channel: Channel(0x28), battle: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.channel.IsBattle(); got != tt.battle {
				t.Errorf("Channel(%d).IsBattle() = %v, want %v", tt.channel, got, tt.battle)
			}
		})
	}
}

func TestChannelString(t *testing.T) {
	if got := ChannelSay.String(); got != "say" {
		t.Errorf("ChannelSay.String() = %q, want %q", got, "say")
	}

	if got := ChannelLinkshell3.String(); got != "linkshell3" {
		t.Errorf("ChannelLinkshell3.String() = %q, want %q", got, "linkshell3")
	}

	if got := Channel(0x29).String(); got != "battle(41)" {
		t.Errorf("battle channel String() = %q, want %q", got, "battle(41)")
	}
}
