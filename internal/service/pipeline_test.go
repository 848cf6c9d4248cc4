package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatObserver struct {
	mu        sync.Mutex
	sightings map[models.ChatType][]int64
}

func newFakeChatObserver() *fakeChatObserver {
	return &fakeChatObserver{sightings: make(map[models.ChatType][]int64)}
}

func (o *fakeChatObserver) Observe(chatType models.ChatType, chatID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sightings[chatType] = append(o.sightings[chatType], chatID)
}

type pipelineFixture struct {
	pipeline   *Pipeline
	producer   *fakeProducer
	store      *fakeObjectStore
	downloader *fakeDownloader
	observer   *fakeChatObserver
}

type pipelineOption func(*pipelineParams)

type pipelineParams struct {
	whitelist   []int64
	maxBytes    int64
	uploadFiles bool
	downloads   map[string][]byte
	downloadErr error
}

func withWhitelist(ids ...int64) pipelineOption {
	return func(p *pipelineParams) { p.whitelist = ids }
}

func withMaxBytes(n int64) pipelineOption {
	return func(p *pipelineParams) { p.maxBytes = n }
}

func withUploadsDisabled() pipelineOption {
	return func(p *pipelineParams) { p.uploadFiles = false }
}

func withDownloads(data map[string][]byte) pipelineOption {
	return func(p *pipelineParams) { p.downloads = data }
}

func withDownloadError(err error) pipelineOption {
	return func(p *pipelineParams) { p.downloadErr = err }
}

func newPipelineFixture(t *testing.T, opts ...pipelineOption) *pipelineFixture {
	t.Helper()

	params := pipelineParams{
		maxBytes:    1000,
		uploadFiles: true,
	}
	for _, opt := range opts {
		opt(&params)
	}

	logger := testLogger()
	store := newFakeObjectStore()
	downloader := &fakeDownloader{data: params.downloads, err: params.downloadErr}
	producer := &fakeProducer{}
	observer := newFakeChatObserver()

	pipeline := NewPipeline(
		NewWhitelist(params.whitelist),
		NewNormalizer("telegram-test", false),
		NewOffloader(store, downloader, params.maxBytes, logger),
		NewPublisher(producer, logger),
		NewDispatcher(2),
		observer,
		params.uploadFiles,
		logger,
	)

	return &pipelineFixture{
		pipeline:   pipeline,
		producer:   producer,
		store:      store,
		downloader: downloader,
		observer:   observer,
	}
}

func (f *pipelineFixture) published(t *testing.T) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, record := range f.producer.records {
		var wire map[string]interface{}
		require.NoError(t, json.Unmarshal(record.value, &wire))
		out = append(out, wire)
	}
	return out
}

func TestPipeline_NewMemberAction(t *testing.T) {
	f := newPipelineFixture(t)

	ev := &models.RawEvent{
		MessageID:  1,
		From:       &models.EventUser{ID: 3, Username: "alice"},
		Chat:       models.EventChat{ID: -200, Title: "lobby"},
		Service:    models.ServiceNewChatMembers,
		NewMembers: []models.EventUser{{ID: 7, Username: "bob"}},
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)

	published := f.published(t)
	require.Len(t, published, 1)
	assert.Equal(t, "ACTION", published[0]["type"])

	actionInfo, ok := published[0]["actionInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NEW_MEMBER", actionInfo["actionType"])

	relatedUser, ok := actionInfo["relatedUser"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "7", relatedUser["id"])
	assert.Equal(t, "bob", relatedUser["username"])
}

func TestPipeline_PlainGroupMessage(t *testing.T) {
	f := newPipelineFixture(t)

	ev := &models.RawEvent{
		MessageID: 2,
		From:      &models.EventUser{ID: 3},
		Chat:      models.EventChat{ID: -100123, Title: "lobby"},
		Text:      "hi",
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)

	published := f.published(t)
	require.Len(t, published, 1)
	assert.Equal(t, "MESSAGE", published[0]["type"])
	assert.Equal(t, "hi", published[0]["text"])

	chat, ok := published[0]["chat"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "GROUP", chat["type"])
}

func TestPipeline_PhotoWithinLimitIsOffloaded(t *testing.T) {
	f := newPipelineFixture(t,
		withMaxBytes(1000),
		withDownloads(map[string][]byte{"f1": []byte("jpeg")}),
	)

	ev := &models.RawEvent{
		MessageID:  3,
		From:       &models.EventUser{ID: 3},
		Chat:       models.EventChat{ID: 5, FirstName: "Bob"},
		Attachment: &models.Attachment{Kind: models.AttachmentPhoto, FileID: "f1", FileUniqueID: "u1", SizeBytes: 500},
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)

	published := f.published(t)
	require.Len(t, published, 1)
	assert.Equal(t, "PHOTO", published[0]["mediaType"])
	assert.Equal(t, "photo", published[0]["storageBucket"])
	assert.Contains(t, published[0]["storageObject"], "u1")
}

func TestPipeline_OversizePhotoIsPublishedWithoutStorage(t *testing.T) {
	f := newPipelineFixture(t, withMaxBytes(100))

	ev := &models.RawEvent{
		MessageID:  4,
		From:       &models.EventUser{ID: 3},
		Chat:       models.EventChat{ID: 5},
		Attachment: &models.Attachment{Kind: models.AttachmentPhoto, FileID: "f1", SizeBytes: 500},
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)
	assert.Zero(t, f.downloader.calls)

	published := f.published(t)
	require.Len(t, published, 1)
	assert.Equal(t, "PHOTO", published[0]["mediaType"])
	assert.NotContains(t, published[0], "storageBucket")
	assert.NotContains(t, published[0], "storageObject")
}

func TestPipeline_WhitelistRejection(t *testing.T) {
	f := newPipelineFixture(t, withWhitelist(42))

	ev := &models.RawEvent{
		MessageID: 5,
		From:      &models.EventUser{ID: 3},
		Chat:      models.EventChat{ID: -100123},
		Text:      "ignored",
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, f.producer.records)
	assert.Empty(t, f.observer.sightings, "rejected chats must not leak into observability")
}

func TestPipeline_WhitelistAdmitsListedChat(t *testing.T) {
	f := newPipelineFixture(t, withWhitelist(42))

	ev := &models.RawEvent{
		MessageID: 6,
		From:      &models.EventUser{ID: 3},
		Chat:      models.EventChat{ID: 42},
		Text:      "hello",
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)
	require.Len(t, f.producer.records, 1)
	assert.Equal(t, "42", f.producer.records[0].key)
}

func TestPipeline_ContractViolationIsDropped(t *testing.T) {
	f := newPipelineFixture(t)

	ev := &models.RawEvent{
		MessageID: 7,
		Chat:      models.EventChat{ID: 5},
		Text:      "no sender",
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.Error(t, err)
	assert.Equal(t, OutcomeDropped, outcome)
	assert.Empty(t, f.producer.records)
}

func TestPipeline_OffloadFailureDropsEvent(t *testing.T) {
	f := newPipelineFixture(t, withDownloadError(errors.New("network down")))

	ev := &models.RawEvent{
		MessageID:  8,
		From:       &models.EventUser{ID: 3},
		Chat:       models.EventChat{ID: 5},
		Attachment: &models.Attachment{Kind: models.AttachmentPhoto, FileID: "f1", SizeBytes: 10},
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.Error(t, err)
	assert.Equal(t, OutcomeDropped, outcome)
	assert.Empty(t, f.producer.records, "no publish without the promised media")
}

func TestPipeline_UploadsDisabledSkipsOffload(t *testing.T) {
	f := newPipelineFixture(t, withUploadsDisabled())

	ev := &models.RawEvent{
		MessageID:  9,
		From:       &models.EventUser{ID: 3},
		Chat:       models.EventChat{ID: 5},
		Attachment: &models.Attachment{Kind: models.AttachmentPhoto, FileID: "f1", SizeBytes: 10},
	}

	outcome, err := f.pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, outcome)
	assert.Zero(t, f.downloader.calls)

	published := f.published(t)
	require.Len(t, published, 1)
	assert.Equal(t, "PHOTO", published[0]["mediaType"])
	assert.NotContains(t, published[0], "storageBucket")
}

func TestPipeline_SubmitProcessesAsynchronously(t *testing.T) {
	f := newPipelineFixture(t, withDownloads(map[string][]byte{"f1": []byte("x")}))

	ev := &models.RawEvent{
		MessageID:  10,
		From:       &models.EventUser{ID: 3},
		Chat:       models.EventChat{ID: 5},
		Attachment: &models.Attachment{Kind: models.AttachmentPhoto, FileID: "f1", FileUniqueID: "u1", SizeBytes: 1},
	}

	f.pipeline.Submit(context.Background(), ev)
	f.pipeline.dispatcher.Wait()

	require.Len(t, f.producer.records, 1)
}

func TestPipeline_ObservesAdmittedChats(t *testing.T) {
	f := newPipelineFixture(t)

	events := []*models.RawEvent{
		{MessageID: 1, From: &models.EventUser{ID: 1}, Chat: models.EventChat{ID: -10}, Text: "a"},
		{MessageID: 2, From: &models.EventUser{ID: 1}, Chat: models.EventChat{ID: 20}, Text: "b"},
	}
	for _, ev := range events {
		_, err := f.pipeline.Process(context.Background(), ev)
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{-10}, f.observer.sightings[models.ChatTypeGroup])
	assert.Equal(t, []int64{20}, f.observer.sightings[models.ChatTypePrivate])
}
