package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/metrics"
	"github.com/lojasmm/rbm/internal/rbm"
	"github.com/lojasmm/rbm/internal/session"
	"github.com/lojasmm/rbm/internal/store"
	"github.com/lojasmm/rbm/internal/webhook"
)

// Postback data carried by the bot's reply chips.
const (
	postbackCard     = "show_card"
	postbackCarousel = "show_carousel"
	postbackHelp     = "help"
)

// Sender is the part of the RBM gateway the bot uses.
type Sender interface {
	SendTextMessage(ctx context.Context, text, msisdn string, suggestions ...rbm.Suggestion) (*rbm.AgentMessage, error)
	SendStandaloneCard(ctx context.Context, card rbm.StandaloneCard, msisdn string) (*rbm.AgentMessage, error)
	SendCarouselCards(ctx context.Context, contents []rbm.CardContent, width rbm.CardWidth, msisdn string) (*rbm.AgentMessage, error)
	SendReadMessage(ctx context.Context, messageID, msisdn string) error
	SendIsTypingMessage(ctx context.Context, msisdn string) error
}

type Handler struct {
	rbm      Sender
	store    store.Store
	sessions *session.Manager
	imageURL string
	logger   zerolog.Logger
}

func NewHandler(sender Sender, s store.Store, sessions *session.Manager, imageURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		rbm:      sender,
		store:    s,
		sessions: sessions,
		imageURL: imageURL,
		logger:   logger.With().Str("component", "bot").Logger(),
	}
}

// HandleEvent is the webhook.EventHandler for the agent.
func (h *Handler) HandleEvent(ctx context.Context, ev webhook.Event) {
	switch ev.Kind {
	case webhook.KindText, webhook.KindSuggestionResponse, webhook.KindUserFile, webhook.KindLocation:
		h.handleMessage(ctx, ev)
	case webhook.KindUserEvent:
		h.logger.Debug().Str("msisdn", ev.MSISDN).Str("event_type", ev.EventType).Str("message_id", ev.MessageID).Msg("user event")
	case webhook.KindCapability:
		h.logger.Info().Str("msisdn", ev.MSISDN).Str("request_id", ev.RequestID).Strs("features", ev.Features).Msg("capability callback")
	default:
		h.logger.Warn().Str("msisdn", ev.MSISDN).Msg("unhandled notification")
	}
}

func (h *Handler) handleMessage(ctx context.Context, ev webhook.Event) {
	if ev.MSISDN == "" || ev.MessageID == "" {
		h.logger.Warn().Str("kind", string(ev.Kind)).Msg("message without sender or id")
		return
	}

	fresh, err := h.store.MarkInbound(ev.MessageID)
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", ev.MessageID).Msg("store error")
		return
	}
	if !fresh {
		metrics.DuplicateMessagesTotal.Inc()
		h.logger.Debug().Str("message_id", ev.MessageID).Msg("skipping redelivered message")
		return
	}

	err = h.sessions.Do(ctx, ev.MSISDN, func(ctx context.Context) error {
		return h.reply(ctx, ev)
	})
	if err != nil {
		h.logger.Error().Err(err).Str("msisdn", ev.MSISDN).Msg("failed to reply")
	}
}

func (h *Handler) reply(ctx context.Context, ev webhook.Event) error {
	if err := h.rbm.SendReadMessage(ctx, ev.MessageID, ev.MSISDN); err != nil {
		// The reply is still worth sending without the receipt.
		h.logger.Warn().Err(err).Str("msisdn", ev.MSISDN).Msg("failed to send read receipt")
	}
	if err := h.rbm.SendIsTypingMessage(ctx, ev.MSISDN); err != nil {
		h.logger.Warn().Err(err).Str("msisdn", ev.MSISDN).Msg("failed to send typing indicator")
	}

	var err error
	reply := command(ev)
	switch reply {
	case postbackCard:
		_, err = h.rbm.SendStandaloneCard(ctx, h.sampleCard(), ev.MSISDN)
	case postbackCarousel:
		_, err = h.rbm.SendCarouselCards(ctx, h.sampleCarousel(), rbm.CardWidthMedium, ev.MSISDN)
	case postbackHelp:
		_, err = h.rbm.SendTextMessage(ctx, helpText, ev.MSISDN, menu()...)
	default:
		reply = "echo"
		_, err = h.rbm.SendTextMessage(ctx, echoText(ev), ev.MSISDN, menu()...)
	}
	if err != nil {
		return fmt.Errorf("sending %s reply: %w", reply, err)
	}
	metrics.BotRepliesTotal.WithLabelValues(reply).Inc()
	return nil
}

const helpText = "I can show you a rich card or a carousel. Tap a suggestion below, or type \"card\" or \"carousel\"."

// command maps a message to one of the bot's postbacks, or "" for anything else.
func command(ev webhook.Event) string {
	if ev.Kind == webhook.KindSuggestionResponse {
		return ev.PostbackData
	}
	switch strings.ToLower(strings.TrimSpace(ev.Text)) {
	case "card":
		return postbackCard
	case "carousel":
		return postbackCarousel
	case "help", "menu":
		return postbackHelp
	}
	return ""
}

func echoText(ev webhook.Event) string {
	switch ev.Kind {
	case webhook.KindUserFile:
		return fmt.Sprintf("Thanks for the file %q.", ev.UserFile.Payload.FileName)
	case webhook.KindLocation:
		return fmt.Sprintf("Got your location: %.5f, %.5f.", ev.Location.Latitude, ev.Location.Longitude)
	}
	return "You said: " + ev.Text
}

func menu() []rbm.Suggestion {
	return rbm.Suggestions(
		rbm.Reply{Text: "Card", PostbackData: postbackCard},
		rbm.Reply{Text: "Carousel", PostbackData: postbackCarousel},
		rbm.Reply{Text: "Help", PostbackData: postbackHelp},
	)
}

func (h *Handler) sampleCard() rbm.StandaloneCard {
	card := rbm.CardSpec{
		Title:       "Rich card",
		Description: "A standalone card with media and suggested replies.",
		ImageURL:    h.imageURL,
		Replies: []rbm.Reply{
			{Text: "Carousel", PostbackData: postbackCarousel},
			{Text: "Help", PostbackData: postbackHelp},
		},
	}
	return rbm.NewStandaloneCard(card.CardContent(rbm.MediaHeightMedium), rbm.CardOrientationVertical)
}

func (h *Handler) sampleCarousel() []rbm.CardContent {
	specs := []rbm.CardSpec{
		{Title: "First card", Description: "Swipe for more.", ImageURL: h.imageURL, Replies: []rbm.Reply{{Text: "Pick first", PostbackData: "pick_1"}}},
		{Title: "Second card", Description: "Cards share one width.", ImageURL: h.imageURL, Replies: []rbm.Reply{{Text: "Pick second", PostbackData: "pick_2"}}},
		{Title: "Third card", Description: "Up to ten fit in a carousel.", ImageURL: h.imageURL, Replies: []rbm.Reply{{Text: "Pick third", PostbackData: "pick_3"}}},
	}
	contents := make([]rbm.CardContent, len(specs))
	for i, s := range specs {
		contents[i] = s.CardContent(rbm.MediaHeightShort)
	}
	return contents
}
