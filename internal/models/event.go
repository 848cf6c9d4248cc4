package models

// ServiceKind marks an event as a platform service event. The empty value
// means the event is ordinary content.
type ServiceKind string

const (
	ServiceNone             ServiceKind = ""
	ServiceNewChatMembers   ServiceKind = "new_chat_members"
	ServiceLeftChatMember   ServiceKind = "left_chat_member"
	ServicePinnedMessage    ServiceKind = "pinned_message"
	ServiceNewChatTitle     ServiceKind = "new_chat_title"
	ServiceNewChatPhoto     ServiceKind = "new_chat_photo"
	ServiceGroupChatCreated ServiceKind = "group_chat_created"
	ServiceVideoChatStarted ServiceKind = "video_chat_started"
	ServiceVideoChatEnded   ServiceKind = "video_chat_ended"
	ServiceOther            ServiceKind = "other"
)

// Attachment kinds as decoded at the platform boundary. Kinds without a
// dedicated constant are carried verbatim (document, location, poll, ...)
// and classify to MediaTypeOther.
const (
	AttachmentSticker   = "sticker"
	AttachmentAudio     = "audio"
	AttachmentVoice     = "voice"
	AttachmentPhoto     = "photo"
	AttachmentVideo     = "video"
	AttachmentAnimation = "animation"
	AttachmentVideoNote = "video_note"
)

// EventUser is a platform user as carried by a raw event.
type EventUser struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// EventChat is the chat a raw event belongs to. Negative ids denote
// multi-party chats on Telegram.
type EventChat struct {
	ID        int64
	Title     string
	FirstName string
	LastName  string
	Username  string
}

// Attachment is the media metadata of a raw event. FileID is the handle
// used to download the bytes; FileUniqueID is stable across downloads and
// names the stored object.
type Attachment struct {
	Kind         string
	FileID       string
	FileUniqueID string
	FileName     string
	MimeType     string
	SizeBytes    int64
}

// RawEvent is one inbound platform happening, decoded once at the Telegram
// boundary so the pipeline never branches on the client library's types.
type RawEvent struct {
	MessageID    int64
	From         *EventUser
	Chat         EventChat
	Text         string
	ReplyToID    *int64
	Service      ServiceKind
	NewMembers   []EventUser
	LeftMember   *EventUser
	Attachment   *Attachment
	BotMentioned bool
}
