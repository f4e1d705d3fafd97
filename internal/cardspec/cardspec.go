// Package cardspec reads agent messages described in YAML files.
//
// A document holds either text or cards:
//
//	text: Pick one
//	suggestions:
//	  - {text: Yes, postback: yes}
//
//	orientation: VERTICAL   # one card: standalone
//	height: TALL
//	width: MEDIUM           # two or more cards: carousel
//	cards:
//	  - title: First
//	    description: ...
//	    image: https://example.com/a.png
//	    replies:
//	      - {text: Open, postback: open_1}
package cardspec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lojasmm/rbm/internal/rbm"
)

type Document struct {
	Text        string      `yaml:"text"`
	Suggestions []rbm.Reply `yaml:"suggestions"`

	Orientation string `yaml:"orientation"`
	Alignment   string `yaml:"alignment"`
	Height      string `yaml:"height"`
	Width       string `yaml:"width"`
	Cards       []Card `yaml:"cards"`
}

type Card struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Image       string      `yaml:"image"`
	Thumbnail   string      `yaml:"thumbnail"`
	Replies     []rbm.Reply `yaml:"replies"`
}

// Load reads and converts the document at path.
func Load(path string) (rbm.AgentMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rbm.AgentMessage{}, fmt.Errorf("reading card file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document and converts it into a message.
func Parse(data []byte) (rbm.AgentMessage, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return rbm.AgentMessage{}, fmt.Errorf("%w: empty card file", rbm.ErrInvalidArgument)
		}
		return rbm.AgentMessage{}, fmt.Errorf("%w: decoding card file: %v", rbm.ErrInvalidArgument, err)
	}
	return doc.Message()
}

// Message converts the document: no cards gives a text message, one card a
// standalone card and more a carousel.
func (d Document) Message() (rbm.AgentMessage, error) {
	if d.Text != "" && len(d.Cards) > 0 {
		return rbm.AgentMessage{}, fmt.Errorf("%w: document has both text and cards", rbm.ErrInvalidArgument)
	}

	switch len(d.Cards) {
	case 0:
		if d.Text == "" {
			return rbm.AgentMessage{}, fmt.Errorf("%w: document has neither text nor cards", rbm.ErrInvalidArgument)
		}
		return rbm.NewTextMessage(d.Text, rbm.Suggestions(d.Suggestions...)...), nil
	case 1:
		return d.standalone()
	default:
		return d.carousel()
	}
}

func (d Document) standalone() (rbm.AgentMessage, error) {
	height, err := parseOr(d.Height, rbm.ParseMediaHeight, rbm.MediaHeightMedium)
	if err != nil {
		return rbm.AgentMessage{}, err
	}
	orientation, err := parseOr(d.Orientation, rbm.ParseCardOrientation, rbm.CardOrientationVertical)
	if err != nil {
		return rbm.AgentMessage{}, err
	}
	alignment, err := parseOr(d.Alignment, rbm.ParseThumbnailImageAlignment, rbm.ThumbnailImageAlignmentUnspecified)
	if err != nil {
		return rbm.AgentMessage{}, err
	}

	card := rbm.NewStandaloneCard(d.Cards[0].content(height), orientation)
	card.ThumbnailImageAlignment = alignment
	return rbm.NewStandaloneMessage(card), nil
}

func (d Document) carousel() (rbm.AgentMessage, error) {
	height, err := parseOr(d.Height, rbm.ParseMediaHeight, rbm.MediaHeightMedium)
	if err != nil {
		return rbm.AgentMessage{}, err
	}
	width, err := parseOr(d.Width, rbm.ParseCardWidth, rbm.CardWidthMedium)
	if err != nil {
		return rbm.AgentMessage{}, err
	}

	contents := make([]rbm.CardContent, len(d.Cards))
	for i, c := range d.Cards {
		contents[i] = c.content(height)
	}
	carousel, err := rbm.NewCarouselCard(contents, width)
	if err != nil {
		return rbm.AgentMessage{}, err
	}
	return rbm.NewCarouselMessage(carousel), nil
}

func (c Card) content(height rbm.MediaHeight) rbm.CardContent {
	content := rbm.CardSpec{
		Title:       c.Title,
		Description: c.Description,
		ImageURL:    c.Image,
		Replies:     c.Replies,
	}.CardContent(height)
	if content.Media != nil && c.Thumbnail != "" {
		content.Media.ContentInfo.ThumbnailURL = c.Thumbnail
	}
	return content
}

func parseOr[T any](s string, parse func(string) (T, error), def T) (T, error) {
	if s == "" {
		return def, nil
	}
	return parse(s)
}
