package webhook

// --- Incoming push payload ---
// Reference: https://developers.google.com/business-communications/rcs-business-messaging/guides/integrate/webhooks

// verificationRequest is posted once when the webhook is configured.
type verificationRequest struct {
	ClientToken string `json:"clientToken"`
	Secret      string `json:"secret"`
}

type pushEnvelope struct {
	Message      pushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

type pushMessage struct {
	Data        string `json:"data"` // base64 encoded notification
	MessageID   string `json:"messageId"`
	PublishTime string `json:"publishTime"`
}

// notification is the decoded push data. Exactly one payload field is set.
type notification struct {
	AgentID           string `json:"agentId"`
	SenderPhoneNumber string `json:"senderPhoneNumber"`
	MessageID         string `json:"messageId"`
	EventID           string `json:"eventId"`
	SendTime          string `json:"sendTime"`

	Text               string              `json:"text"`
	SuggestionResponse *suggestionResponse `json:"suggestionResponse"`
	UserFile           *UserFile           `json:"userFile"`
	Location           *Location           `json:"location"`
	EventType          string              `json:"eventType"`

	RequestID    string        `json:"requestId"`
	Capabilities *capabilities `json:"capabilities"`
}

type suggestionResponse struct {
	PostbackData string `json:"postbackData"`
	Text         string `json:"text"`
	Type         string `json:"type"`
}

type capabilities struct {
	Features []string `json:"features"`
}

type UserFile struct {
	Thumbnail *FileInfo `json:"thumbnail,omitempty"`
	Payload   FileInfo  `json:"payload"`
}

type FileInfo struct {
	MimeType      string `json:"mimeType"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	FileURI       string `json:"fileUri"`
	FileName      string `json:"fileName"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Kind tells which payload an Event carries.
type Kind string

const (
	KindText               Kind = "text"
	KindSuggestionResponse Kind = "suggestion_response"
	KindUserFile           Kind = "user_file"
	KindLocation           Kind = "location"
	KindUserEvent          Kind = "user_event"
	KindCapability         Kind = "capability"
	KindUnknown            Kind = "unknown"
)

// Event is a decoded notification handed to the application.
type Event struct {
	Kind      Kind
	AgentID   string
	MSISDN    string
	MessageID string
	EventID   string
	SendTime  string

	// Text is the user's text, or the chip label for a suggestion response.
	Text         string
	PostbackData string
	UserFile     *UserFile
	Location     *Location
	// EventType is DELIVERED, READ or IS_TYPING for user events.
	EventType string

	// RequestID and Features are set on capability callbacks.
	RequestID string
	Features  []string
}

func (n notification) event() Event {
	ev := Event{
		AgentID:   n.AgentID,
		MSISDN:    n.SenderPhoneNumber,
		MessageID: n.MessageID,
		EventID:   n.EventID,
		SendTime:  n.SendTime,
	}

	switch {
	case n.SuggestionResponse != nil:
		ev.Kind = KindSuggestionResponse
		ev.Text = n.SuggestionResponse.Text
		ev.PostbackData = n.SuggestionResponse.PostbackData
	case n.Text != "":
		ev.Kind = KindText
		ev.Text = n.Text
	case n.UserFile != nil:
		ev.Kind = KindUserFile
		ev.UserFile = n.UserFile
	case n.Location != nil:
		ev.Kind = KindLocation
		ev.Location = n.Location
	case n.Capabilities != nil:
		ev.Kind = KindCapability
		ev.RequestID = n.RequestID
		ev.Features = n.Capabilities.Features
	case n.EventType != "":
		ev.Kind = KindUserEvent
		ev.EventType = n.EventType
	default:
		ev.Kind = KindUnknown
	}
	return ev
}
