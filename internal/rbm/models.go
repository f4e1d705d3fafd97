package rbm

// --- Outgoing agent messages ---
// Reference: https://developers.google.com/business-communications/rcs-business-messaging/reference/rest/v1/phones.agentMessages

type AgentMessage struct {
	Name           string              `json:"name,omitempty"`
	SendTime       string              `json:"sendTime,omitempty"`
	ContentMessage AgentContentMessage `json:"contentMessage"`
}

// AgentContentMessage carries exactly one of Text or RichCard, plus optional chips.
type AgentContentMessage struct {
	Text        string       `json:"text,omitempty"`
	RichCard    *RichCard    `json:"richCard,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

type RichCard struct {
	StandaloneCard *StandaloneCard `json:"standaloneCard,omitempty"`
	CarouselCard   *CarouselCard   `json:"carouselCard,omitempty"`
}

type StandaloneCard struct {
	CardOrientation         CardOrientation         `json:"cardOrientation"`
	ThumbnailImageAlignment ThumbnailImageAlignment `json:"thumbnailImageAlignment,omitempty"`
	CardContent             CardContent             `json:"cardContent"`
}

type CarouselCard struct {
	CardWidth    CardWidth     `json:"cardWidth"`
	CardContents []CardContent `json:"cardContents"`
}

type CardContent struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Media       *Media       `json:"media,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

type Media struct {
	Height      MediaHeight  `json:"height,omitempty"`
	ContentInfo *ContentInfo `json:"contentInfo,omitempty"`
}

type ContentInfo struct {
	FileURL      string `json:"fileUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

// Suggestion is a chip attached to a message or card. Only suggested replies are supported.
type Suggestion struct {
	Reply *SuggestedReply `json:"reply,omitempty"`
}

type SuggestedReply struct {
	Text         string `json:"text"`
	PostbackData string `json:"postbackData"`
}

// --- Agent events ---
// Reference: https://developers.google.com/business-communications/rcs-business-messaging/reference/rest/v1/phones.agentEvents

type AgentEvent struct {
	Name      string    `json:"name,omitempty"`
	EventType EventType `json:"eventType"`
	MessageID string    `json:"messageId,omitempty"`
}

// --- Testers, files, capabilities ---

type Tester struct {
	Name         string `json:"name,omitempty"`
	InviteStatus string `json:"inviteStatus,omitempty"`
}

type CreateFileRequest struct {
	FileURL      string `json:"fileUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// File is the uploaded file resource; Name has the form "files/{id}".
type File struct {
	Name string `json:"name"`
}

type RequestCapabilityCallbackRequest struct {
	RequestID string `json:"requestId"`
}

type Capabilities struct {
	Features []string `json:"features"`
}

type BatchGetUsersRequest struct {
	Users []string `json:"users"`
}

// BatchGetUsersResponse lists reachable users. The sample counts are 0 when
// fewer than 500 users were requested.
type BatchGetUsersResponse struct {
	ReachableUsers                 []string `json:"reachableUsers"`
	TotalRandomSampleUserCount     int      `json:"totalRandomSampleUserCount"`
	ReachableRandomSampleUserCount int      `json:"reachableRandomSampleUserCount"`
}

// errorResponse is the Google API error envelope.
type errorResponse struct {
	Error APIError `json:"error"`
}
