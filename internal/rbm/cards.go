package rbm

const (
	MinCarouselCards = 2
	MaxCarouselCards = 10
)

// NewSuggestedReply builds a reply chip. Text and postback data are passed
// through unchanged; length limits are enforced by the platform.
func NewSuggestedReply(text, postbackData string) Suggestion {
	return Suggestion{Reply: &SuggestedReply{Text: text, PostbackData: postbackData}}
}

// Reply is the flat form of a suggested reply.
type Reply struct {
	Text         string `json:"text" yaml:"text"`
	PostbackData string `json:"postbackData" yaml:"postback"`
}

func (r Reply) Suggestion() Suggestion {
	return NewSuggestedReply(r.Text, r.PostbackData)
}

// Suggestions converts replies into chips, keeping their order.
func Suggestions(replies ...Reply) []Suggestion {
	if len(replies) == 0 {
		return nil
	}
	out := make([]Suggestion, len(replies))
	for i, r := range replies {
		out[i] = r.Suggestion()
	}
	return out
}

// CardParams are the flat inputs of a card. Every field is optional.
type CardParams struct {
	Title       string
	Description string
	ImageURL    string
	// Height applies only when ImageURL is set; the zero value means MEDIUM.
	Height      MediaHeight
	Suggestions []Suggestion
}

// NewCardContent assembles a card from p, omitting every absent field.
// An entirely empty card is returned as is and left to the platform to reject.
func NewCardContent(p CardParams) CardContent {
	var content CardContent

	if p.ImageURL != "" {
		height := p.Height
		if height == MediaHeightUnspecified {
			height = MediaHeightMedium
		}
		content.Media = &Media{
			Height:      height,
			ContentInfo: &ContentInfo{FileURL: p.ImageURL},
		}
	}

	content.Title = p.Title
	content.Description = p.Description

	if len(p.Suggestions) > 0 {
		content.Suggestions = p.Suggestions
	}
	return content
}

// CardSpec describes one card with reply chips, for callers that keep cards as data.
type CardSpec struct {
	Title       string
	Description string
	ImageURL    string
	Replies     []Reply
}

// CardContent converts s into a card with the given media height.
func (s CardSpec) CardContent(height MediaHeight) CardContent {
	return NewCardContent(CardParams{
		Title:       s.Title,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Height:      height,
		Suggestions: Suggestions(s.Replies...),
	})
}

// NewStandaloneCard wraps content into a single card with the given orientation.
func NewStandaloneCard(content CardContent, orientation CardOrientation) StandaloneCard {
	return StandaloneCard{
		CardOrientation: orientation,
		CardContent:     content,
	}
}

// NewCarouselCard wraps contents, in order, into a carousel. The platform
// accepts between MinCarouselCards and MaxCarouselCards cards.
func NewCarouselCard(contents []CardContent, width CardWidth) (CarouselCard, error) {
	if len(contents) < MinCarouselCards || len(contents) > MaxCarouselCards {
		return CarouselCard{}, invalidArgument("carousel needs %d to %d cards, got %d",
			MinCarouselCards, MaxCarouselCards, len(contents))
	}
	if _, ok := cardWidthNames[width]; !ok {
		return CarouselCard{}, invalidArgument("unknown card width %v", width)
	}
	return CarouselCard{CardWidth: width, CardContents: contents}, nil
}

// NewTextMessage builds a plain text message with optional reply chips.
func NewTextMessage(text string, suggestions ...Suggestion) AgentMessage {
	msg := AgentMessage{ContentMessage: AgentContentMessage{Text: text}}
	if len(suggestions) > 0 {
		msg.ContentMessage.Suggestions = suggestions
	}
	return msg
}

// NewStandaloneMessage wraps a standalone card into an agent message.
func NewStandaloneMessage(card StandaloneCard) AgentMessage {
	return AgentMessage{ContentMessage: AgentContentMessage{
		RichCard: &RichCard{StandaloneCard: &card},
	}}
}

// NewCarouselMessage wraps a carousel into an agent message.
func NewCarouselMessage(card CarouselCard) AgentMessage {
	return AgentMessage{ContentMessage: AgentContentMessage{
		RichCard: &RichCard{CarouselCard: &card},
	}}
}

func validateMessage(msg AgentMessage) error {
	content := msg.ContentMessage
	switch {
	case content.Text == "" && content.RichCard == nil:
		return invalidArgument("message has neither text nor rich card")
	case content.Text != "" && content.RichCard != nil:
		return invalidArgument("message has both text and rich card")
	case content.RichCard != nil:
		rc := content.RichCard
		if (rc.StandaloneCard == nil) == (rc.CarouselCard == nil) {
			return invalidArgument("rich card needs exactly one of standalone or carousel")
		}
		if rc.StandaloneCard != nil {
			if _, ok := cardOrientationNames[rc.StandaloneCard.CardOrientation]; !ok {
				return invalidArgument("unknown card orientation %v", rc.StandaloneCard.CardOrientation)
			}
		}
		if rc.CarouselCard != nil {
			if _, err := NewCarouselCard(rc.CarouselCard.CardContents, rc.CarouselCard.CardWidth); err != nil {
				return err
			}
		}
	}
	return nil
}
