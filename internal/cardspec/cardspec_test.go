package cardspec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lojasmm/rbm/internal/rbm"
)

func TestParse_Text(t *testing.T) {
	msg, err := Parse([]byte(`
text: Pick one
suggestions:
  - {text: "Yes", postback: answer_yes}
  - {text: "No", postback: answer_no}
`))
	if err != nil {
		t.Fatal(err)
	}
	content := msg.ContentMessage
	if content.Text != "Pick one" || content.RichCard != nil {
		t.Fatalf("unexpected content %+v", content)
	}
	if len(content.Suggestions) != 2 || content.Suggestions[1].Reply.PostbackData != "answer_no" {
		t.Fatalf("unexpected suggestions %+v", content.Suggestions)
	}
}

func TestParse_Standalone(t *testing.T) {
	msg, err := Parse([]byte(`
orientation: HORIZONTAL
alignment: RIGHT
height: TALL
cards:
  - title: Sale
    description: Everything half off
    image: https://example.com/sale.png
    thumbnail: https://example.com/sale-thumb.png
    replies:
      - {text: Shop, postback: shop}
`))
	if err != nil {
		t.Fatal(err)
	}
	card := msg.ContentMessage.RichCard.StandaloneCard
	if card == nil {
		t.Fatal("expected a standalone card")
	}
	if card.CardOrientation != rbm.CardOrientationHorizontal || card.ThumbnailImageAlignment != rbm.ThumbnailImageAlignmentRight {
		t.Errorf("layout = %v/%v", card.CardOrientation, card.ThumbnailImageAlignment)
	}
	media := card.CardContent.Media
	if media.Height != rbm.MediaHeightTall || media.ContentInfo.FileURL != "https://example.com/sale.png" || media.ContentInfo.ThumbnailURL != "https://example.com/sale-thumb.png" {
		t.Errorf("unexpected media %+v / %+v", media, media.ContentInfo)
	}
	if card.CardContent.Suggestions[0].Reply.Text != "Shop" {
		t.Errorf("unexpected suggestions %+v", card.CardContent.Suggestions)
	}
}

func TestParse_StandaloneDefaults(t *testing.T) {
	msg, err := Parse([]byte("cards:\n  - title: Only a title\n"))
	if err != nil {
		t.Fatal(err)
	}
	card := msg.ContentMessage.RichCard.StandaloneCard
	if card.CardOrientation != rbm.CardOrientationVertical {
		t.Errorf("orientation = %v", card.CardOrientation)
	}
	if card.CardContent.Media != nil || card.CardContent.Suggestions != nil {
		t.Errorf("absent fields should stay absent: %+v", card.CardContent)
	}
}

func TestParse_Carousel(t *testing.T) {
	msg, err := Parse([]byte(`
width: SMALL
height: SHORT
cards:
  - {title: A, image: "https://example.com/a.png"}
  - {title: B, image: "https://example.com/b.png"}
  - {title: C}
`))
	if err != nil {
		t.Fatal(err)
	}
	carousel := msg.ContentMessage.RichCard.CarouselCard
	if carousel == nil || carousel.CardWidth != rbm.CardWidthSmall {
		t.Fatalf("unexpected carousel %+v", carousel)
	}
	for i, want := range []string{"A", "B", "C"} {
		if carousel.CardContents[i].Title != want {
			t.Errorf("card %d title = %q, want %q", i, carousel.CardContents[i].Title, want)
		}
	}
	if carousel.CardContents[0].Media.Height != rbm.MediaHeightShort {
		t.Errorf("height = %v", carousel.CardContents[0].Media.Height)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"nothing":        "suggestions: []\n",
		"text and cards": "text: hi\ncards:\n  - title: A\n",
		"bad height":     "height: HUGE\ncards:\n  - title: A\n",
		"bad width":      "width: WIDE\ncards:\n  - title: A\n  - title: B\n",
		"unknown field":  "txt: hi\n",
		"too many cards": "cards: [{title: '1'}, {title: '2'}, {title: '3'}, {title: '4'}, {title: '5'}, {title: '6'}, {title: '7'}, {title: '8'}, {title: '9'}, {title: '10'}, {title: '11'}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			if !errors.Is(err, rbm.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg.yaml")
	if err := os.WriteFile(path, []byte("text: hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	msg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if msg.ContentMessage.Text != "hello" {
		t.Fatalf("text = %q", msg.ContentMessage.Text)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
