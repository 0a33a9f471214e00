// Package chat defines chat channel identities and the per-event message
// shape handed to the filter engine by the host's chat pipeline.
package chat

import (
	"fmt"
	"time"
)

// Channel identifies a chat log channel. The low seven bits carry the log
// kind; the upper bits encode source and target entity types and are ignored
// here.
type Channel uint16

const (
	ChannelNone           Channel = 0
	ChannelSay            Channel = 10
	ChannelShout          Channel = 11
	ChannelTellOutgoing   Channel = 12
	ChannelTellIncoming   Channel = 13
	ChannelParty          Channel = 14
	ChannelAlliance       Channel = 15
	ChannelLinkshell1     Channel = 16
	ChannelLinkshell2     Channel = 17
	ChannelLinkshell3     Channel = 18
	ChannelLinkshell4     Channel = 19
	ChannelLinkshell5     Channel = 20
	ChannelLinkshell6     Channel = 21
	ChannelLinkshell7     Channel = 22
	ChannelLinkshell8     Channel = 23
	ChannelFreeCompany    Channel = 24
	ChannelNoviceNetwork  Channel = 27
	ChannelCustomEmote    Channel = 28
	ChannelStandardEmote  Channel = 29
	ChannelYell           Channel = 30
	ChannelCrossParty     Channel = 32
	ChannelPvPTeam        Channel = 36
	ChannelCrossLinkshell Channel = 37
)

const (
	kindMask = 0x7f

	// Battle log kinds: damage dealt (0x29) through detrimental effect
	// removed (0x31).
	battleKindLow  = 0x29
	battleKindHigh = 0x31
)

// IsBattle reports whether the channel carries battle log lines. Battle
// channels are never filtered, regardless of configuration.
func (c Channel) IsBattle() bool {
	kind := uint16(c) & kindMask

	return kind >= battleKindLow && kind <= battleKindHigh
}

func (c Channel) String() string {
	switch c {
	case ChannelNone:
		return "none"
	case ChannelSay:
		return "say"
	case ChannelShout:
		return "shout"
	case ChannelTellOutgoing:
		return "tell_outgoing"
	case ChannelTellIncoming:
		return "tell_incoming"
	case ChannelParty:
		return "party"
	case ChannelAlliance:
		return "alliance"
	case ChannelLinkshell1, ChannelLinkshell2, ChannelLinkshell3, ChannelLinkshell4,
		ChannelLinkshell5, ChannelLinkshell6, ChannelLinkshell7, ChannelLinkshell8:
		return fmt.Sprintf("linkshell%d", c-ChannelLinkshell1+1)
	case ChannelFreeCompany:
		return "free_company"
	case ChannelNoviceNetwork:
		return "novice_network"
	case ChannelCustomEmote:
		return "custom_emote"
	case ChannelStandardEmote:
		return "standard_emote"
	case ChannelYell:
		return "yell"
	case ChannelCrossParty:
		return "cross_party"
	case ChannelPvPTeam:
		return "pvp_team"
	case ChannelCrossLinkshell:
		return "cross_linkshell"
	}

	if c.IsBattle() {
		return fmt.Sprintf("battle(%d)", uint16(c))
	}

	return fmt.Sprintf("channel(%d)", uint16(c))
}

// Message is one chat event as delivered by the host pipeline. It is
// constructed per event and not retained beyond the history log.
type Message struct {
	Channel    Channel
	SenderID   uint64
	Sender     string
	Text       string
	ReceivedAt time.Time
}
