package models

import "encoding/json"

// ChatType classifies a chat as one-on-one or multi-party. Telegram reports
// bot/supergroup/channel subtypes as well; those collapse to GROUP except
// bot chats, which collapse to PRIVATE.
type ChatType string

const (
	ChatTypePrivate ChatType = "PRIVATE"
	ChatTypeGroup   ChatType = "GROUP"
)

// MessageType tells downstream consumers what kind of event this is.
type MessageType string

const (
	MessageTypeMessage MessageType = "MESSAGE"
	MessageTypeAction  MessageType = "ACTION"
	MessageTypeOther   MessageType = "OTHER"
)

// ActionType is meaningful only when MessageType is ACTION.
type ActionType string

const (
	ActionTypeNewMember  ActionType = "NEW_MEMBER"
	ActionTypeMemberLeft ActionType = "MEMBER_LEFT"
	ActionTypeOther      ActionType = "OTHER"
)

// MediaType identifies the attachment kind carried by an event. Attachment
// kinds with no dedicated value collapse to OTHER, so "has media but
// unrecognized" stays distinguishable from "no media".
type MediaType string

const (
	MediaTypeSticker   MediaType = "STICKER"
	MediaTypeAudio     MediaType = "AUDIO"
	MediaTypeVoice     MediaType = "VOICE"
	MediaTypePhoto     MediaType = "PHOTO"
	MediaTypeVideo     MediaType = "VIDEO"
	MediaTypeAnimation MediaType = "ANIMATION"
	MediaTypeVideoNote MediaType = "VIDEO_NOTE"
	MediaTypeOther     MediaType = "OTHER"
)

// User is an immutable snapshot of a platform user taken at event time.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// FullName derives the display name: first name alone if the last name is
// absent, last name alone if the first name is absent, both joined with a
// space when both are present, nil when neither is set.
func (u User) FullName() *string {
	var full string
	switch {
	case u.FirstName != "" && u.LastName != "":
		full = u.FirstName + " " + u.LastName
	case u.FirstName != "":
		full = u.FirstName
	case u.LastName != "":
		full = u.LastName
	default:
		return nil
	}
	return &full
}

// MarshalJSON emits the wire shape consumed downstream: id, username and the
// derived fullname, with optional fields omitted rather than null.
func (u User) MarshalJSON() ([]byte, error) {
	wire := struct {
		ID       string `json:"id"`
		Username string `json:"username,omitempty"`
		Fullname string `json:"fullname,omitempty"`
	}{
		ID:       u.ID,
		Username: u.Username,
	}
	if full := u.FullName(); full != nil {
		wire.Fullname = *full
	}
	return json.Marshal(wire)
}

// Chat identifies the conversation an event belongs to.
type Chat struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Type  ChatType `json:"type"`
}

// ActionInfo describes a membership change. Present if and only if the
// message type is ACTION.
type ActionInfo struct {
	ActionType  ActionType `json:"actionType"`
	RelatedUser User       `json:"relatedUser"`
}

// StorageLocator points at an offloaded media object.
type StorageLocator struct {
	Bucket string
	Object string
}

// CanonicalMessage is the platform-independent unit published downstream.
// It is constructed once per accepted raw event and never mutated after
// construction, except for the storage fields the offload step fills in
// before publish.
type CanonicalMessage struct {
	ID            string      `json:"id"`
	Author        User        `json:"author"`
	Chat          Chat        `json:"chat"`
	Frontend      string      `json:"frontend"`
	Type          MessageType `json:"type"`
	Text          string      `json:"text,omitempty"`
	ReplyTo       string      `json:"replyTo,omitempty"`
	ActionInfo    *ActionInfo `json:"actionInfo,omitempty"`
	MediaType     *MediaType  `json:"mediaType,omitempty"`
	StorageBucket string      `json:"storageBucket,omitempty"`
	StorageObject string      `json:"storageObject,omitempty"`
	Mentioned     *bool       `json:"mentioned,omitempty"`
}
