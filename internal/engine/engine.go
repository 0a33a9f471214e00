// Package engine produces filter verdicts for chat messages and party finder
// listing batches. Checks run in a fixed priority order and the first match
// supplies the recorded reason: item level, then custom rules, then the
// classifier category (custom rules first for chat, which has no item-level
// check).
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/classifier"
	"github.com/xivtools/nosol/internal/history"
	"github.com/xivtools/nosol/internal/normalize"
	"github.com/xivtools/nosol/internal/pf"
	"github.com/xivtools/nosol/internal/platform/observability"
	"github.com/xivtools/nosol/internal/rules"
)

// Messages shorter than this many words are never classified; they carry too
// little signal and invite false positives.
const minClassifyWords = 4

// Verdict reasons other than classifier categories, which use the category
// label itself.
const (
	ReasonItemLevel = "ilvl"
	ReasonCustom    = "custom"
)

// ErrEmptyMessage rejects events with no text at the boundary, before
// normalization.
var ErrEmptyMessage = errors.New("engine: empty message text")

// Verdict is the filter decision for one message or listing. Reason is empty
// when nothing is suppressed.
type Verdict struct {
	Suppress bool   `json:"suppress"`
	Reason   string `json:"reason,omitempty"`
}

// Config is the read-only filter configuration supplied by the host.
type Config struct {
	CustomChatFilter bool
	CustomPFFilter   bool
	FilterIlvlPFs    bool
	IgnorePrivatePFs bool
	LogFilteredChat  bool
	LogFilteredPFs   bool

	// MaxItemLevel is the cached maximum-attainable item level, computed
	// externally. Zero disables the item-level check regardless of the
	// toggle.
	MaxItemLevel uint16

	ChatFilters []string
	PFFilters   []string

	// CategoryChannels maps an enabled classifier category to the channels
	// it is enforced on. Listings are matched under chat.ChannelNone.
	CategoryChannels map[classifier.Category][]chat.Channel
}

func (c Config) categoryEnabled(cat classifier.Category, channel chat.Channel) bool {
	for _, ch := range c.CategoryChannels[cat] {
		if ch == channel {
			return true
		}
	}

	return false
}

// ReportSink receives suppressed entries for persistence. Failures are
// logged and never block a verdict.
type ReportSink interface {
	Append(ctx context.Context, e history.Entry) error
}

// Engine evaluates events sequentially. All mutable state (batch session,
// history, rule sets) sits behind a single mutex; events may therefore be
// delivered from multiple goroutines.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	chatRules *rules.Matcher
	pfRules   *rules.Matcher
	cls       classifier.Classifier
	hist      *history.Store
	reports   ReportSink
	logger    *zerolog.Logger

	seenBatch bool
	lastBatch uint32
}

// New compiles the configured rule sets and returns an engine. cls must not
// be nil; use classifier.Unavailable for rule-only operation.
func New(cfg Config, cls classifier.Classifier, hist *history.Store, logger *zerolog.Logger) (*Engine, error) {
	chatRules, err := rules.NewMatcher(cfg.ChatFilters)
	if err != nil {
		return nil, fmt.Errorf("chat filters: %w", err)
	}

	pfRules, err := rules.NewMatcher(cfg.PFFilters)
	if err != nil {
		return nil, fmt.Errorf("party finder filters: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		chatRules: chatRules,
		pfRules:   pfRules,
		cls:       cls,
		hist:      hist,
		logger:    logger,
	}, nil
}

// SetReportSink attaches a persistence sink for suppressed entries.
func (e *Engine) SetReportSink(sink ReportSink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reports = sink
}

// UpdateConfig swaps the filter configuration, recompiling rule sets. The
// batch session and history are untouched.
func (e *Engine) UpdateConfig(cfg Config) error {
	chatRules, err := rules.NewMatcher(cfg.ChatFilters)
	if err != nil {
		return fmt.Errorf("chat filters: %w", err)
	}

	pfRules, err := rules.NewMatcher(cfg.PFFilters)
	if err != nil {
		return fmt.Errorf("party finder filters: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.chatRules = chatRules
	e.pfRules = pfRules

	return nil
}

// History exposes the store for the reporting read interface.
func (e *Engine) History() *history.Store {
	return e.hist
}

// DecideChat evaluates one chat message. Battle channels always pass and are
// not recorded; every other message gets a history entry whether suppressed
// or not.
func (e *Engine) DecideChat(ctx context.Context, msg chat.Message) (Verdict, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return Verdict{}, ErrEmptyMessage
	}

	if msg.Channel.IsBattle() {
		return Verdict{}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	normalized := normalize.Normalize(msg.Text)
	verdict, version := e.decideText(ctx, msg.Channel, normalized, e.chatRules, e.cfg.CustomChatFilter)

	entry := history.NewEntry(history.Entry{
		RecordedAt:        msg.ReceivedAt,
		Channel:           msg.Channel,
		SenderID:          msg.SenderID,
		Sender:            msg.Sender,
		Text:              msg.Text,
		Suppressed:        verdict.Suppress,
		Reason:            verdict.Reason,
		ClassifierVersion: version,
	})

	e.hist.Chat.Append(entry)
	observability.HistorySize.WithLabelValues("chat").Set(float64(e.hist.Chat.Len()))

	if verdict.Suppress {
		observability.ChatMessagesProcessed.WithLabelValues(observability.StatusSuppressed).Inc()
		observability.ChatMessagesSuppressed.WithLabelValues(verdict.Reason).Inc()
		e.persist(ctx, entry)

		if e.cfg.LogFilteredChat {
			e.logger.Info().
				Str("channel", msg.Channel.String()).
				Str("sender", msg.Sender).
				Str("reason", verdict.Reason).
				Str("text", msg.Text).
				Msg("filtered chat message")
		}
	} else {
		observability.ChatMessagesProcessed.WithLabelValues(observability.StatusPassed).Inc()
	}

	return verdict, nil
}

// FilterBatch evaluates one raw listing batch and returns a same-size buffer
// with suppressed listings zeroed, plus the suppressed count. On a malformed
// batch the caller should pass its original buffer through unmodified.
func (e *Engine) FilterBatch(ctx context.Context, data []byte) ([]byte, int, error) {
	batch, err := pf.Decode(data)
	if err != nil {
		observability.BatchesDecoded.WithLabelValues(observability.StatusMalformed).Inc()

		return nil, 0, err
	}

	observability.BatchesDecoded.WithLabelValues(observability.StatusOK).Inc()

	e.mu.Lock()
	defer e.mu.Unlock()

	// The same batch is retransmitted until a new set begins, so same-batch
	// listings accumulate in history and a number transition clears it.
	if !e.seenBatch || batch.BatchNumber() != e.lastBatch {
		e.hist.Listings.Clear()
		e.seenBatch = true
		e.lastBatch = batch.BatchNumber()
	}

	suppressed := 0

	for i := 0; i < pf.NumListings; i++ {
		listing := batch.Listing(i)

		if listing.IsNull() {
			continue
		}

		if e.cfg.IgnorePrivatePFs && listing.SearchArea().Has(pf.SearchAreaPrivate) {
			continue
		}

		verdict, version := e.decideListing(ctx, listing)

		entry := history.NewEntry(history.Entry{
			Channel:           chat.ChannelNone,
			Sender:            listing.Name(),
			Text:              listing.Description(),
			Suppressed:        verdict.Suppress,
			Reason:            verdict.Reason,
			ClassifierVersion: version,
		})

		e.hist.Listings.Append(entry)

		if verdict.Suppress {
			observability.ListingsProcessed.WithLabelValues(observability.StatusSuppressed).Inc()
			observability.ListingsSuppressed.WithLabelValues(verdict.Reason).Inc()
			e.persist(ctx, entry)

			if e.cfg.LogFilteredPFs {
				e.logger.Info().
					Str("sender", listing.Name()).
					Str("reason", verdict.Reason).
					Str("description", listing.Description()).
					Msg("filtered party finder listing")
			}

			batch.Suppress(i)

			suppressed++
		} else {
			observability.ListingsProcessed.WithLabelValues(observability.StatusPassed).Inc()
		}
	}

	observability.HistorySize.WithLabelValues("listings").Set(float64(e.hist.Listings.Len()))

	return batch.Encode(), suppressed, nil
}

// decideListing runs the listing check chain: item level, then custom rules,
// then the classifier under the listing pseudo-channel.
func (e *Engine) decideListing(ctx context.Context, listing pf.Listing) (Verdict, string) {
	if e.cfg.FilterIlvlPFs && e.cfg.MaxItemLevel > 0 && listing.MinItemLevel() > e.cfg.MaxItemLevel {
		return Verdict{Suppress: true, Reason: ReasonItemLevel}, ""
	}

	normalized := normalize.Normalize(listing.Description())

	return e.decideText(ctx, chat.ChannelNone, normalized, e.pfRules, e.cfg.CustomPFFilter)
}

// decideText runs the shared custom-rule and classifier chain on normalized
// text. The returned string is the classifier version when classification
// ran.
func (e *Engine) decideText(ctx context.Context, channel chat.Channel, normalized string, matcher *rules.Matcher, customEnabled bool) (Verdict, string) {
	if customEnabled && matcher.Matches(normalized) {
		return Verdict{Suppress: true, Reason: ReasonCustom}, ""
	}

	if len(strings.Fields(normalized)) < minClassifyWords {
		return Verdict{}, ""
	}

	category, version, err := e.cls.Classify(ctx, channel, normalized)
	if err != nil {
		if !errors.Is(err, classifier.ErrUnavailable) {
			e.logger.Warn().Err(err).Msg("classification failed, falling back to rule-only")
		}

		return Verdict{}, ""
	}

	if category != classifier.CategoryNormal && e.cfg.categoryEnabled(category, channel) {
		return Verdict{Suppress: true, Reason: string(category)}, version
	}

	return Verdict{}, version
}

func (e *Engine) persist(ctx context.Context, entry history.Entry) {
	if e.reports == nil {
		return
	}

	if err := e.reports.Append(ctx, entry); err != nil {
		e.logger.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to persist suppressed entry")
	}
}
