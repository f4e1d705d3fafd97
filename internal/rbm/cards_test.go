package rbm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewSuggestedReply(t *testing.T) {
	s := NewSuggestedReply("Yes", "answer_yes")
	if s.Reply == nil {
		t.Fatal("expected reply variant")
	}
	if s.Reply.Text != "Yes" || s.Reply.PostbackData != "answer_yes" {
		t.Fatalf("unexpected reply: %+v", s.Reply)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"reply":{"text":"Yes","postbackData":"answer_yes"}}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

// No length or encoding checks are made locally; the platform enforces its own limits.
func TestNewSuggestedReply_NoLocalValidation(t *testing.T) {
	long := strings.Repeat("x", 500)
	s := NewSuggestedReply(long, "")
	if s.Reply.Text != long || s.Reply.PostbackData != "" {
		t.Fatal("expected input to pass through unchanged")
	}
}

func TestNewCardContent_OptionalFields(t *testing.T) {
	tests := []struct {
		name      string
		params    CardParams
		wantTitle bool
		wantDesc  bool
		wantMedia bool
	}{
		{"all fields", CardParams{Title: "T", Description: "D", ImageURL: "https://x/img.png", Height: MediaHeightTall}, true, true, true},
		{"no image", CardParams{Title: "T", Description: "D"}, true, true, false},
		{"image only", CardParams{ImageURL: "https://x/img.png"}, false, false, true},
		{"title only", CardParams{Title: "T"}, true, false, false},
		{"description and image", CardParams{Description: "D", ImageURL: "https://x/img.png"}, false, true, true},
		{"empty", CardParams{}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := NewCardContent(tt.params)
			if (content.Title != "") != tt.wantTitle {
				t.Errorf("title present = %v, want %v", content.Title != "", tt.wantTitle)
			}
			if (content.Description != "") != tt.wantDesc {
				t.Errorf("description present = %v, want %v", content.Description != "", tt.wantDesc)
			}
			if (content.Media != nil) != tt.wantMedia {
				t.Errorf("media present = %v, want %v", content.Media != nil, tt.wantMedia)
			}
			if content.Suggestions != nil {
				t.Errorf("expected no suggestions, got %v", content.Suggestions)
			}

			data, err := json.Marshal(content)
			if err != nil {
				t.Fatal(err)
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(data, &fields); err != nil {
				t.Fatal(err)
			}
			if _, ok := fields["media"]; ok != tt.wantMedia {
				t.Errorf("json media key present = %v, want %v (%s)", ok, tt.wantMedia, data)
			}
			if _, ok := fields["suggestions"]; ok {
				t.Errorf("json should omit empty suggestions: %s", data)
			}
		})
	}
}

func TestNewCardContent_Media(t *testing.T) {
	content := NewCardContent(CardParams{ImageURL: "https://x/img.png", Height: MediaHeightShort})
	if content.Media.ContentInfo.FileURL != "https://x/img.png" {
		t.Fatalf("unexpected file url %q", content.Media.ContentInfo.FileURL)
	}
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"media":{"height":"SHORT","contentInfo":{"fileUrl":"https://x/img.png"}}}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestNewCardContent_DefaultHeight(t *testing.T) {
	content := NewCardContent(CardParams{ImageURL: "https://x/img.png"})
	if content.Media.Height != MediaHeightMedium {
		t.Fatalf("expected MEDIUM, got %v", content.Media.Height)
	}
}

func TestNewCardContent_SuggestionOrder(t *testing.T) {
	replies := []Reply{{"One", "1"}, {"Two", "2"}, {"Three", "3"}}
	content := NewCardContent(CardParams{Title: "T", Suggestions: Suggestions(replies...)})

	if len(content.Suggestions) != len(replies) {
		t.Fatalf("expected %d suggestions, got %d", len(replies), len(content.Suggestions))
	}
	for i, r := range replies {
		got := content.Suggestions[i].Reply
		if got.Text != r.Text || got.PostbackData != r.PostbackData {
			t.Errorf("suggestion %d = %+v, want %+v", i, got, r)
		}
	}
}

func TestCardSpec_CardContent(t *testing.T) {
	spec := CardSpec{
		Title:    "Pizza",
		ImageURL: "https://x/pizza.png",
		Replies:  []Reply{{Text: "Order", PostbackData: "order_pizza"}},
	}
	content := spec.CardContent(MediaHeightTall)
	if content.Title != "Pizza" || content.Description != "" {
		t.Fatalf("unexpected text fields: %+v", content)
	}
	if content.Media.Height != MediaHeightTall {
		t.Fatalf("expected TALL, got %v", content.Media.Height)
	}
	if len(content.Suggestions) != 1 || content.Suggestions[0].Reply.PostbackData != "order_pizza" {
		t.Fatalf("unexpected suggestions: %+v", content.Suggestions)
	}
}

func TestNewStandaloneCard_Wire(t *testing.T) {
	card := NewStandaloneCard(NewCardContent(CardParams{Title: "T", Description: "D"}), CardOrientationVertical)
	data, err := json.Marshal(NewStandaloneMessage(card))
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		ContentMessage struct {
			RichCard struct {
				StandaloneCard struct {
					CardOrientation string `json:"cardOrientation"`
					CardContent     struct {
						Title       string `json:"title"`
						Description string `json:"description"`
						Media       any    `json:"media"`
					} `json:"cardContent"`
				} `json:"standaloneCard"`
			} `json:"richCard"`
		} `json:"contentMessage"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	sc := decoded.ContentMessage.RichCard.StandaloneCard
	if sc.CardOrientation != "VERTICAL" {
		t.Errorf("cardOrientation = %q, want VERTICAL", sc.CardOrientation)
	}
	if sc.CardContent.Title != "T" || sc.CardContent.Description != "D" {
		t.Errorf("unexpected card content: %+v", sc.CardContent)
	}
	if sc.CardContent.Media != nil {
		t.Errorf("expected no media, got %v", sc.CardContent.Media)
	}
}

func TestNewCarouselCard_Bounds(t *testing.T) {
	card := func(n int) []CardContent {
		out := make([]CardContent, n)
		for i := range out {
			out[i] = CardContent{Title: string(rune('A' + i))}
		}
		return out
	}

	for _, n := range []int{0, 1, 11} {
		if _, err := NewCarouselCard(card(n), CardWidthMedium); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%d cards: expected ErrInvalidArgument, got %v", n, err)
		}
	}
	for _, n := range []int{2, 10} {
		if _, err := NewCarouselCard(card(n), CardWidthMedium); err != nil {
			t.Errorf("%d cards should be valid: %v", n, err)
		}
	}
	if _, err := NewCarouselCard(card(3), CardWidthUnspecified); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unspecified width, got %v", err)
	}
}

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage("hi")
	if msg.ContentMessage.Text != "hi" || msg.ContentMessage.Suggestions != nil {
		t.Fatalf("unexpected message: %+v", msg)
	}

	msg = NewTextMessage("pick", NewSuggestedReply("A", "a"), NewSuggestedReply("B", "b"))
	if len(msg.ContentMessage.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(msg.ContentMessage.Suggestions))
	}
}

func TestValidateMessage(t *testing.T) {
	content := []CardContent{{Title: "A"}, {Title: "B"}}
	tests := []struct {
		name    string
		msg     AgentMessage
		wantErr bool
	}{
		{"text", NewTextMessage("hi"), false},
		{"standalone", NewStandaloneMessage(NewStandaloneCard(CardContent{Title: "T"}, CardOrientationHorizontal)), false},
		{"carousel", NewCarouselMessage(CarouselCard{CardWidth: CardWidthSmall, CardContents: content}), false},
		{"empty", AgentMessage{}, true},
		{"text and card", AgentMessage{ContentMessage: AgentContentMessage{Text: "x", RichCard: &RichCard{}}}, true},
		{"empty rich card", AgentMessage{ContentMessage: AgentContentMessage{RichCard: &RichCard{}}}, true},
		{"no orientation", NewStandaloneMessage(StandaloneCard{CardContent: CardContent{Title: "T"}}), true},
		{"short carousel", NewCarouselMessage(CarouselCard{CardWidth: CardWidthSmall, CardContents: content[:1]}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMessage(tt.msg)
			if tt.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnums(t *testing.T) {
	data, err := json.Marshal(AgentEvent{EventType: EventTypeIsTyping})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"eventType":"IS_TYPING"}` {
		t.Fatalf("unexpected event json %s", data)
	}

	if _, err := json.Marshal(AgentEvent{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected unspecified event type to fail, got %v", err)
	}

	var sc StandaloneCard
	if err := json.Unmarshal([]byte(`{"cardOrientation":"HORIZONTAL","thumbnailImageAlignment":"RIGHT","cardContent":{}}`), &sc); err != nil {
		t.Fatal(err)
	}
	if sc.CardOrientation != CardOrientationHorizontal || sc.ThumbnailImageAlignment != ThumbnailImageAlignmentRight {
		t.Fatalf("unexpected card: %+v", sc)
	}

	if _, err := ParseCardWidth("HUGE"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if h, err := ParseMediaHeight("TALL"); err != nil || h != MediaHeightTall {
		t.Fatalf("ParseMediaHeight(TALL) = %v, %v", h, err)
	}
	if CardWidthUnspecified.String() != "UNSPECIFIED" {
		t.Fatalf("unexpected string %q", CardWidthUnspecified.String())
	}
}
