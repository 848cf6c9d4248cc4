package telegram

import (
	"strings"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/mymmrac/telego"
)

// DecodeUpdate flattens a Bot API update into a RawEvent. Updates that carry
// no message (edits, callback queries, channel posts) decode to nil and are
// ignored upstream.
func DecodeUpdate(update telego.Update, botUsername string) *models.RawEvent {
	msg := update.Message
	if msg == nil {
		return nil
	}

	ev := &models.RawEvent{
		MessageID: int64(msg.MessageID),
		From:      decodeUser(msg.From),
		Chat:      decodeChat(msg.Chat),
		Text:      messageText(msg),
		Service:   serviceKind(msg),
	}

	if msg.ReplyToMessage != nil {
		replyTo := int64(msg.ReplyToMessage.MessageID)
		ev.ReplyToID = &replyTo
	}

	for _, member := range msg.NewChatMembers {
		if u := decodeUser(&member); u != nil {
			ev.NewMembers = append(ev.NewMembers, *u)
		}
	}
	if msg.LeftChatMember != nil {
		ev.LeftMember = decodeUser(msg.LeftChatMember)
	}

	ev.Attachment = decodeAttachment(msg)
	ev.BotMentioned = mentionsBot(ev.Text, botUsername)

	return ev
}

func decodeUser(u *telego.User) *models.EventUser {
	if u == nil {
		return nil
	}
	return &models.EventUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		IsBot:     u.IsBot,
	}
}

func decodeChat(chat telego.Chat) models.EventChat {
	return models.EventChat{
		ID:        chat.ID,
		Title:     chat.Title,
		FirstName: chat.FirstName,
		LastName:  chat.LastName,
		Username:  chat.Username,
	}
}

func messageText(msg *telego.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func serviceKind(msg *telego.Message) models.ServiceKind {
	switch {
	case len(msg.NewChatMembers) > 0:
		return models.ServiceNewChatMembers
	case msg.LeftChatMember != nil:
		return models.ServiceLeftChatMember
	case msg.PinnedMessage != nil:
		return models.ServicePinnedMessage
	case msg.NewChatTitle != "":
		return models.ServiceNewChatTitle
	case len(msg.NewChatPhoto) > 0:
		return models.ServiceNewChatPhoto
	case msg.GroupChatCreated:
		return models.ServiceGroupChatCreated
	case msg.VideoChatStarted != nil:
		return models.ServiceVideoChatStarted
	case msg.VideoChatEnded != nil:
		return models.ServiceVideoChatEnded
	case msg.DeleteChatPhoto, msg.SupergroupChatCreated, msg.ChannelChatCreated:
		return models.ServiceOther
	}
	return models.ServiceNone
}

// decodeAttachment picks the message's media, one per message by Bot API
// contract. Animation is checked before Document because animated messages
// set both.
func decodeAttachment(msg *telego.Message) *models.Attachment {
	switch {
	case msg.Animation != nil:
		return &models.Attachment{
			Kind:         models.AttachmentAnimation,
			FileID:       msg.Animation.FileID,
			FileUniqueID: msg.Animation.FileUniqueID,
			FileName:     msg.Animation.FileName,
			MimeType:     msg.Animation.MimeType,
			SizeBytes:    int64(msg.Animation.FileSize),
		}
	case msg.Sticker != nil:
		return &models.Attachment{
			Kind:         models.AttachmentSticker,
			FileID:       msg.Sticker.FileID,
			FileUniqueID: msg.Sticker.FileUniqueID,
			SizeBytes:    int64(msg.Sticker.FileSize),
		}
	case msg.Audio != nil:
		return &models.Attachment{
			Kind:         models.AttachmentAudio,
			FileID:       msg.Audio.FileID,
			FileUniqueID: msg.Audio.FileUniqueID,
			FileName:     msg.Audio.FileName,
			MimeType:     msg.Audio.MimeType,
			SizeBytes:    int64(msg.Audio.FileSize),
		}
	case msg.Voice != nil:
		return &models.Attachment{
			Kind:         models.AttachmentVoice,
			FileID:       msg.Voice.FileID,
			FileUniqueID: msg.Voice.FileUniqueID,
			MimeType:     msg.Voice.MimeType,
			SizeBytes:    int64(msg.Voice.FileSize),
		}
	case len(msg.Photo) > 0:
		// Sizes are ordered ascending. The last one is the original.
		photo := msg.Photo[len(msg.Photo)-1]
		return &models.Attachment{
			Kind:         models.AttachmentPhoto,
			FileID:       photo.FileID,
			FileUniqueID: photo.FileUniqueID,
			SizeBytes:    int64(photo.FileSize),
		}
	case msg.Video != nil:
		return &models.Attachment{
			Kind:         models.AttachmentVideo,
			FileID:       msg.Video.FileID,
			FileUniqueID: msg.Video.FileUniqueID,
			FileName:     msg.Video.FileName,
			MimeType:     msg.Video.MimeType,
			SizeBytes:    int64(msg.Video.FileSize),
		}
	case msg.VideoNote != nil:
		return &models.Attachment{
			Kind:         models.AttachmentVideoNote,
			FileID:       msg.VideoNote.FileID,
			FileUniqueID: msg.VideoNote.FileUniqueID,
			SizeBytes:    int64(msg.VideoNote.FileSize),
		}
	case msg.Document != nil:
		return &models.Attachment{
			Kind:         "document",
			FileID:       msg.Document.FileID,
			FileUniqueID: msg.Document.FileUniqueID,
			FileName:     msg.Document.FileName,
			MimeType:     msg.Document.MimeType,
			SizeBytes:    int64(msg.Document.FileSize),
		}
	}
	return nil
}

func mentionsBot(text, botUsername string) bool {
	if botUsername == "" || text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), "@"+strings.ToLower(botUsername))
}
