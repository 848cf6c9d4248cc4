package service

import (
	"testing"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMessageType(t *testing.T) {
	tests := []struct {
		name     string
		service  models.ServiceKind
		expected models.MessageType
	}{
		{name: "no service marker", service: models.ServiceNone, expected: models.MessageTypeMessage},
		{name: "new members", service: models.ServiceNewChatMembers, expected: models.MessageTypeAction},
		{name: "member left", service: models.ServiceLeftChatMember, expected: models.MessageTypeAction},
		{name: "pinned message", service: models.ServicePinnedMessage, expected: models.MessageTypeOther},
		{name: "new chat title", service: models.ServiceNewChatTitle, expected: models.MessageTypeOther},
		{name: "video chat started", service: models.ServiceVideoChatStarted, expected: models.MessageTypeOther},
		{name: "unrecognized service", service: models.ServiceOther, expected: models.MessageTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &models.RawEvent{Service: tt.service}
			assert.Equal(t, tt.expected, ClassifyMessageType(ev))
		})
	}
}

func TestClassifyActionType(t *testing.T) {
	tests := []struct {
		name     string
		service  models.ServiceKind
		expected models.ActionType
	}{
		{name: "new members", service: models.ServiceNewChatMembers, expected: models.ActionTypeNewMember},
		{name: "member left", service: models.ServiceLeftChatMember, expected: models.ActionTypeMemberLeft},
		{name: "anything else", service: models.ServicePinnedMessage, expected: models.ActionTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &models.RawEvent{Service: tt.service}
			assert.Equal(t, tt.expected, ClassifyActionType(ev))
		})
	}
}

func TestClassifyMediaType(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		expected models.MediaType
	}{
		{name: "sticker", kind: models.AttachmentSticker, expected: models.MediaTypeSticker},
		{name: "audio", kind: models.AttachmentAudio, expected: models.MediaTypeAudio},
		{name: "voice", kind: models.AttachmentVoice, expected: models.MediaTypeVoice},
		{name: "photo", kind: models.AttachmentPhoto, expected: models.MediaTypePhoto},
		{name: "video", kind: models.AttachmentVideo, expected: models.MediaTypeVideo},
		{name: "animation", kind: models.AttachmentAnimation, expected: models.MediaTypeAnimation},
		{name: "video note", kind: models.AttachmentVideoNote, expected: models.MediaTypeVideoNote},
		{name: "document collapses to other", kind: "document", expected: models.MediaTypeOther},
		{name: "location collapses to other", kind: "location", expected: models.MediaTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &models.RawEvent{Attachment: &models.Attachment{Kind: tt.kind}}
			result := ClassifyMediaType(ev)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, *result)
		})
	}
}

func TestClassifyMediaType_NoAttachment(t *testing.T) {
	assert.Nil(t, ClassifyMediaType(&models.RawEvent{}))
}

func TestClassifyMediaType_Idempotent(t *testing.T) {
	ev := &models.RawEvent{Attachment: &models.Attachment{Kind: models.AttachmentPhoto}}

	first := ClassifyMediaType(ev)
	second := ClassifyMediaType(ev)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, models.AttachmentPhoto, ev.Attachment.Kind)
}

func TestClassifyChatType(t *testing.T) {
	tests := []struct {
		name     string
		chatID   int64
		expected models.ChatType
	}{
		{name: "negative id is group", chatID: -100123, expected: models.ChatTypeGroup},
		{name: "positive id is private", chatID: 42, expected: models.ChatTypePrivate},
		{name: "zero id is private", chatID: 0, expected: models.ChatTypePrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyChatType(models.EventChat{ID: tt.chatID}))
		})
	}
}
