package service

import (
	"strconv"

	apperrors "github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/errors"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
)

// Normalizer assembles canonical messages from decoded raw events.
type Normalizer struct {
	frontendName     string
	includeMentioned bool
}

func NewNormalizer(frontendName string, includeMentioned bool) *Normalizer {
	return &Normalizer{
		frontendName:     frontendName,
		includeMentioned: includeMentioned,
	}
}

// Normalize builds a CanonicalMessage from a raw event. The storage fields
// are left empty; the offload step fills them before publish. A missing
// sender, or an action event with no related member, is a contract
// violation.
func (n *Normalizer) Normalize(ev *models.RawEvent) (*models.CanonicalMessage, error) {
	if ev.From == nil {
		return nil, apperrors.New(apperrors.ErrCodeContractViolation, "event has no sender").
			WithContext("message_id", ev.MessageID).
			WithContext("chat_id", ev.Chat.ID)
	}

	messageType := ClassifyMessageType(ev)

	var actionInfo *models.ActionInfo
	if messageType == models.MessageTypeAction {
		relatedUser, err := actionRelatedUser(ev)
		if err != nil {
			return nil, err
		}
		actionInfo = &models.ActionInfo{
			ActionType:  ClassifyActionType(ev),
			RelatedUser: relatedUser,
		}
	}

	msg := &models.CanonicalMessage{
		ID:         strconv.FormatInt(ev.MessageID, 10),
		Author:     eventUserToUser(*ev.From),
		Chat:       n.buildChat(ev),
		Frontend:   n.frontendName,
		Type:       messageType,
		Text:       ev.Text,
		ActionInfo: actionInfo,
		MediaType:  ClassifyMediaType(ev),
	}

	if ev.ReplyToID != nil {
		msg.ReplyTo = strconv.FormatInt(*ev.ReplyToID, 10)
	}

	if n.includeMentioned {
		mentioned := ev.BotMentioned
		msg.Mentioned = &mentioned
	}

	return msg, nil
}

func (n *Normalizer) buildChat(ev *models.RawEvent) models.Chat {
	chatType := ClassifyChatType(ev.Chat)
	return models.Chat{
		ID:    strconv.FormatInt(ev.Chat.ID, 10),
		Title: chatTitle(ev.Chat, chatType),
		Type:  chatType,
	}
}

// chatTitle synthesizes a display title for private chats from the
// counterparty's names, falling back to username, the platform title and
// finally the stringified id. Group chats use the platform title as-is.
func chatTitle(chat models.EventChat, chatType models.ChatType) string {
	if chatType == models.ChatTypeGroup {
		return chat.Title
	}

	switch {
	case chat.FirstName != "" && chat.LastName != "":
		return chat.FirstName + " " + chat.LastName
	case chat.FirstName != "":
		return chat.FirstName
	case chat.LastName != "":
		return chat.LastName
	case chat.Username != "":
		return chat.Username
	case chat.Title != "":
		return chat.Title
	default:
		return strconv.FormatInt(chat.ID, 10)
	}
}

func actionRelatedUser(ev *models.RawEvent) (models.User, error) {
	if ev.LeftMember != nil {
		return eventUserToUser(*ev.LeftMember), nil
	}
	if len(ev.NewMembers) > 0 {
		return eventUserToUser(ev.NewMembers[0]), nil
	}
	return models.User{}, apperrors.New(apperrors.ErrCodeContractViolation, "action event has no related member").
		WithContext("message_id", ev.MessageID).
		WithContext("chat_id", ev.Chat.ID).
		WithContext("service", string(ev.Service))
}

func eventUserToUser(u models.EventUser) models.User {
	return models.User{
		ID:        strconv.FormatInt(u.ID, 10),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		IsBot:     u.IsBot,
	}
}
