package service

import (
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
)

// ClassifyMessageType derives the message type from the event's service
// marker: membership changes are ACTION, any other service event is OTHER,
// everything else is ordinary content.
func ClassifyMessageType(ev *models.RawEvent) models.MessageType {
	switch ev.Service {
	case models.ServiceNewChatMembers, models.ServiceLeftChatMember:
		return models.MessageTypeAction
	case models.ServiceNone:
		return models.MessageTypeMessage
	default:
		return models.MessageTypeOther
	}
}

// ClassifyActionType maps the two membership service markers to their
// action types. Anything else maps to OTHER.
func ClassifyActionType(ev *models.RawEvent) models.ActionType {
	switch ev.Service {
	case models.ServiceNewChatMembers:
		return models.ActionTypeNewMember
	case models.ServiceLeftChatMember:
		return models.ActionTypeMemberLeft
	default:
		return models.ActionTypeOther
	}
}

// ClassifyMediaType maps the event's attachment kind to a media type.
// Unrecognized kinds collapse to OTHER so "has media but unrecognized"
// stays distinguishable from "no media" (nil).
func ClassifyMediaType(ev *models.RawEvent) *models.MediaType {
	if ev.Attachment == nil {
		return nil
	}

	var mediaType models.MediaType
	switch ev.Attachment.Kind {
	case models.AttachmentSticker:
		mediaType = models.MediaTypeSticker
	case models.AttachmentAudio:
		mediaType = models.MediaTypeAudio
	case models.AttachmentVoice:
		mediaType = models.MediaTypeVoice
	case models.AttachmentPhoto:
		mediaType = models.MediaTypePhoto
	case models.AttachmentVideo:
		mediaType = models.MediaTypeVideo
	case models.AttachmentAnimation:
		mediaType = models.MediaTypeAnimation
	case models.AttachmentVideoNote:
		mediaType = models.MediaTypeVideoNote
	default:
		mediaType = models.MediaTypeOther
	}
	return &mediaType
}

// ClassifyChatType applies the sign-of-id rule: negative chat ids denote
// multi-party chats.
func ClassifyChatType(chat models.EventChat) models.ChatType {
	if chat.ID < 0 {
		return models.ChatTypeGroup
	}
	return models.ChatTypePrivate
}
