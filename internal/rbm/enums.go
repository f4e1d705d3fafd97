package rbm

import "fmt"

// MediaHeight is the display height of a card's media element.
type MediaHeight int

const (
	MediaHeightUnspecified MediaHeight = iota
	MediaHeightShort
	MediaHeightMedium
	MediaHeightTall
)

var mediaHeightNames = map[MediaHeight]string{
	MediaHeightShort:  "SHORT",
	MediaHeightMedium: "MEDIUM",
	MediaHeightTall:   "TALL",
}

// CardOrientation is the layout of a standalone card.
type CardOrientation int

const (
	CardOrientationUnspecified CardOrientation = iota
	CardOrientationHorizontal
	CardOrientationVertical
)

var cardOrientationNames = map[CardOrientation]string{
	CardOrientationHorizontal: "HORIZONTAL",
	CardOrientationVertical:   "VERTICAL",
}

// CardWidth is the width of every card in a carousel.
type CardWidth int

const (
	CardWidthUnspecified CardWidth = iota
	CardWidthSmall
	CardWidthMedium
)

var cardWidthNames = map[CardWidth]string{
	CardWidthSmall:  "SMALL",
	CardWidthMedium: "MEDIUM",
}

// ThumbnailImageAlignment places the image of a horizontal standalone card.
type ThumbnailImageAlignment int

const (
	ThumbnailImageAlignmentUnspecified ThumbnailImageAlignment = iota
	ThumbnailImageAlignmentLeft
	ThumbnailImageAlignmentRight
)

var thumbnailAlignmentNames = map[ThumbnailImageAlignment]string{
	ThumbnailImageAlignmentLeft:  "LEFT",
	ThumbnailImageAlignmentRight: "RIGHT",
}

// EventType is the kind of agent event sent to a user.
type EventType int

const (
	EventTypeUnspecified EventType = iota
	EventTypeRead
	EventTypeIsTyping
)

var eventTypeNames = map[EventType]string{
	EventTypeRead:     "READ",
	EventTypeIsTyping: "IS_TYPING",
}

func (h MediaHeight) String() string             { return enumString(h, mediaHeightNames) }
func (o CardOrientation) String() string         { return enumString(o, cardOrientationNames) }
func (w CardWidth) String() string               { return enumString(w, cardWidthNames) }
func (a ThumbnailImageAlignment) String() string { return enumString(a, thumbnailAlignmentNames) }
func (e EventType) String() string               { return enumString(e, eventTypeNames) }

func (h MediaHeight) MarshalText() ([]byte, error) {
	return marshalEnum(h, mediaHeightNames, "media height")
}

func (h *MediaHeight) UnmarshalText(b []byte) (err error) {
	*h, err = parseEnum(string(b), mediaHeightNames, "media height")
	return err
}

func (o CardOrientation) MarshalText() ([]byte, error) {
	return marshalEnum(o, cardOrientationNames, "card orientation")
}

func (o *CardOrientation) UnmarshalText(b []byte) (err error) {
	*o, err = parseEnum(string(b), cardOrientationNames, "card orientation")
	return err
}

func (w CardWidth) MarshalText() ([]byte, error) {
	return marshalEnum(w, cardWidthNames, "card width")
}

func (w *CardWidth) UnmarshalText(b []byte) (err error) {
	*w, err = parseEnum(string(b), cardWidthNames, "card width")
	return err
}

func (a ThumbnailImageAlignment) MarshalText() ([]byte, error) {
	return marshalEnum(a, thumbnailAlignmentNames, "thumbnail image alignment")
}

func (a *ThumbnailImageAlignment) UnmarshalText(b []byte) (err error) {
	*a, err = parseEnum(string(b), thumbnailAlignmentNames, "thumbnail image alignment")
	return err
}

func (e EventType) MarshalText() ([]byte, error) {
	return marshalEnum(e, eventTypeNames, "event type")
}

func (e *EventType) UnmarshalText(b []byte) (err error) {
	*e, err = parseEnum(string(b), eventTypeNames, "event type")
	return err
}

// ParseMediaHeight maps a wire name such as "TALL" to a MediaHeight.
func ParseMediaHeight(s string) (MediaHeight, error) {
	return parseEnum(s, mediaHeightNames, "media height")
}

// ParseCardOrientation maps a wire name such as "VERTICAL" to a CardOrientation.
func ParseCardOrientation(s string) (CardOrientation, error) {
	return parseEnum(s, cardOrientationNames, "card orientation")
}

// ParseCardWidth maps a wire name such as "MEDIUM" to a CardWidth.
func ParseCardWidth(s string) (CardWidth, error) {
	return parseEnum(s, cardWidthNames, "card width")
}

// ParseThumbnailImageAlignment maps "LEFT" or "RIGHT" to a ThumbnailImageAlignment.
func ParseThumbnailImageAlignment(s string) (ThumbnailImageAlignment, error) {
	return parseEnum(s, thumbnailAlignmentNames, "thumbnail image alignment")
}

func enumString[T comparable](v T, names map[T]string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return "UNSPECIFIED"
}

func marshalEnum[T comparable](v T, names map[T]string, kind string) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("%w: unknown %s %v", ErrInvalidArgument, kind, v)
	}
	return []byte(name), nil
}

func parseEnum[T comparable](s string, names map[T]string, kind string) (T, error) {
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidArgument, kind, s)
}
