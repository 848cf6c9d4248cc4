package service

import (
	"context"

	apperrors "github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/errors"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/metrics"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Outcome is the terminal state of one raw event. Every event reaches
// exactly one.
type Outcome string

const (
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeDropped   Outcome = "DROPPED"
	OutcomePublished Outcome = "PUBLISHED"
)

// ChatObserver receives chat sightings for observability. Passed in as a
// capability so the pipeline stays testable without a live metrics backend.
type ChatObserver interface {
	Observe(chatType models.ChatType, chatID int64)
}

// Pipeline wires admission, normalization, media offload and publishing
// into a per-event sequence and owns the failure policy: all failures are
// local to the one event, nothing is retried.
type Pipeline struct {
	whitelist   *Whitelist
	normalizer  *Normalizer
	offloader   *Offloader
	publisher   *Publisher
	dispatcher  *Dispatcher
	chats       ChatObserver
	uploadFiles bool
	logger      *logrus.Logger
}

func NewPipeline(
	whitelist *Whitelist,
	normalizer *Normalizer,
	offloader *Offloader,
	publisher *Publisher,
	dispatcher *Dispatcher,
	chats ChatObserver,
	uploadFiles bool,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		whitelist:   whitelist,
		normalizer:  normalizer,
		offloader:   offloader,
		publisher:   publisher,
		dispatcher:  dispatcher,
		chats:       chats,
		uploadFiles: uploadFiles,
		logger:      logger,
	}
}

// Submit runs admission and normalization inline, then hands the network
// bound offload-and-publish tail to the worker pool. The tail keeps running
// through shutdown: once started, offload and publish go to completion or
// failure.
func (p *Pipeline) Submit(ctx context.Context, ev *models.RawEvent) {
	msg, outcome, err := p.prepare(ctx, ev)
	if msg == nil {
		p.logOutcome(ev, outcome, err)
		return
	}

	tailCtx := context.WithoutCancel(ctx)
	p.dispatcher.Dispatch(func() {
		outcome, err := p.finish(tailCtx, ev, msg)
		p.logOutcome(ev, outcome, err)
	})
}

// Process runs the full per-event sequence synchronously.
func (p *Pipeline) Process(ctx context.Context, ev *models.RawEvent) (Outcome, error) {
	msg, outcome, err := p.prepare(ctx, ev)
	if msg == nil {
		return outcome, err
	}
	return p.finish(ctx, ev, msg)
}

// prepare admits and normalizes the event. A nil message means the event
// reached a terminal state before the offload/publish tail.
func (p *Pipeline) prepare(ctx context.Context, ev *models.RawEvent) (*models.CanonicalMessage, Outcome, error) {
	metrics.IncrementCounter("events_received", nil, "Raw events received from the platform")

	if !p.whitelist.Admit(ev.Chat.ID) {
		// Admission rejection is policy, not failure. Nothing beyond a
		// debug trace, and no whitelisted-out data reaches storage or
		// the broker.
		metrics.IncrementCounter("events_rejected", nil, "Events rejected by the chat whitelist")
		return nil, OutcomeRejected, nil
	}

	p.chats.Observe(ClassifyChatType(ev.Chat), ev.Chat.ID)
	p.countEvent(ev)
	p.logIncoming(ev)

	msg, err := p.normalizer.Normalize(ev)
	if err != nil {
		metrics.IncrementCounter("contract_violations", nil, "Events violating the normalizer contract")
		metrics.IncrementCounter("events_dropped", nil, "Events dropped before publish")
		return nil, OutcomeDropped, err
	}

	return msg, "", nil
}

// finish offloads media when present and within limits, then publishes.
func (p *Pipeline) finish(ctx context.Context, ev *models.RawEvent, msg *models.CanonicalMessage) (Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline_finish",
		attribute.String("chat.id", msg.Chat.ID),
		attribute.String("message.id", msg.ID),
	)
	defer span.End()

	if ev.Attachment != nil && msg.MediaType != nil && p.uploadFiles {
		locator, err := p.offloader.Offload(ctx, ev.Attachment, *msg.MediaType)
		if err != nil {
			// No publish without the promised media: a canonical message
			// referencing a missing object is worse than no message.
			metrics.IncrementCounter("offload_failures", nil, "Media offloads that failed")
			metrics.IncrementCounter("events_dropped", nil, "Events dropped before publish")
			tracing.RecordError(ctx, err)
			return OutcomeDropped, err
		}
		if locator != nil {
			msg.StorageBucket = locator.Bucket
			msg.StorageObject = locator.Object
		}
	}

	p.publisher.Publish(ctx, msg)
	return OutcomePublished, nil
}

func (p *Pipeline) countEvent(ev *models.RawEvent) {
	if ev.Service != models.ServiceNone {
		metrics.IncrementCounter("service_events", map[string]string{"service": string(ev.Service)}, "Service events by kind")
	}
	if ev.Attachment != nil {
		metrics.IncrementCounter("media_events", map[string]string{"kind": ev.Attachment.Kind}, "Media attachments by kind")
	}
	if ev.Text != "" {
		metrics.IncrementCounter("text_events", nil, "Events carrying text")
	}
}

func (p *Pipeline) logIncoming(ev *models.RawEvent) {
	fields := logrus.Fields{
		"message_id": ev.MessageID,
		"chat_id":    ev.Chat.ID,
	}
	if ev.From != nil {
		fields["from_id"] = ev.From.ID
		fields["from_username"] = ev.From.Username
	}
	if ev.Chat.Title != "" {
		fields["chat_title"] = ev.Chat.Title
	}
	if ev.Service != models.ServiceNone {
		fields["service"] = string(ev.Service)
	}
	if ev.Attachment != nil {
		fields["media"] = ev.Attachment.Kind
	}
	if ev.Text != "" {
		fields["text"] = ev.Text
	}
	p.logger.WithFields(fields).Debug("Incoming message")
}

func (p *Pipeline) logOutcome(ev *models.RawEvent, outcome Outcome, err error) {
	switch outcome {
	case OutcomeRejected:
		p.logger.WithFields(logrus.Fields{
			"chat_id":    ev.Chat.ID,
			"message_id": ev.MessageID,
		}).Debug("Event rejected by whitelist")
	case OutcomeDropped:
		p.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id":    ev.Chat.ID,
			"message_id": ev.MessageID,
			"error_code": string(apperrors.GetCode(err)),
		}).Error("Event dropped")
	case OutcomePublished:
		p.logger.WithFields(logrus.Fields{
			"chat_id":    ev.Chat.ID,
			"message_id": ev.MessageID,
		}).Debug("Event published")
	}
}
