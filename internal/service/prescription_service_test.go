package service

import (
	"context"
	"os"
	"testing"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/pkg/serverutils"
	"prescription-chatbot-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescriptionService_Process(t *testing.T) {
	f := newFixture(t)
	f.indexBuilder.index = &queueIndex{answers: []string{"unused"}}
	ctx := context.Background()

	res, err := f.prescription.Process(ctx, "", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, res.ChatSessionId)

	assert.Equal(t, "Take Paracetamol 500mg twice daily for 5 to 7 days.", res.OriginalText)
	assert.Equal(t, "hi:Take Paracetamol 500mg twice daily for 5 to 7 days.", res.TranslatedText)
	assert.True(t, res.Indexed)
	require.NotNil(t, res.Audio)
	assert.True(t, res.Audio.Success)
	assert.Equal(t, "/artifacts/"+res.ChatSessionId+"/output.wav", res.Audio.URL)

	// narration speaks the translated text
	assert.Equal(t, res.TranslatedText, f.narrator.last())

	for _, name := range []string{constant.ExtractedTextFile, constant.TranslatedTextFile, constant.CleanedTextFile, constant.PrescriptionAudioFile} {
		assert.True(t, f.artifacts.Exists(res.ChatSessionId, name), name)
	}
	extracted, err := os.ReadFile(f.artifacts.Path(res.ChatSessionId, constant.ExtractedTextFile))
	require.NoError(t, err)
	assert.Equal(t, res.OriginalText, string(extracted))

	s, err := f.sessions.Get(res.ChatSessionId)
	require.NoError(t, err)
	assert.True(t, s.HasIndex())
	assert.True(t, s.PrescriptionAudio)
	assert.True(t, s.LastAnswerSufficient)
	assert.Contains(t, f.publisher.types(), events.TypePrescriptionProcessed)
}

func TestPrescriptionService_ProcessTruncatesExtraction(t *testing.T) {
	f := newFixture(t)
	long := make([]byte, 800)
	for i := range long {
		long[i] = 'a'
	}
	f.extractor.text = string(long)

	res, err := f.prescription.Process(context.Background(), "", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Len(t, res.OriginalText, constant.ExtractedTextLimit)
}

func TestPrescriptionService_NewUploadResetsConversation(t *testing.T) {
	f := newFixture(t)
	f.indexBuilder.index = &queueIndex{answers: []string{"Take one tablet of Paracetamol twice a day after meals for five days."}}
	ctx := context.Background()

	first, err := f.prescription.Process(ctx, "", []byte("img"), "image/png")
	require.NoError(t, err)
	_, err = f.chatbot.SendChat(ctx, sendChat(first.ChatSessionId, "How often do I take it?"))
	require.NoError(t, err)

	f.extractor.text = "Amoxicillin 250mg three times a day."
	second, err := f.prescription.Process(ctx, first.ChatSessionId, []byte("img2"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, first.ChatSessionId, second.ChatSessionId)

	history, err := f.chatbot.GetChatHistory(ctx, first.ChatSessionId)
	require.NoError(t, err)
	assert.Empty(t, history.Turns)
	assert.Empty(t, history.LastQuestion)
	require.NotNil(t, history.Prescription)
	assert.Equal(t, "Amoxicillin 250mg three times a day.", history.Prescription.OriginalText)
}

func TestPrescriptionService_ExtractionFailure(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = errBoom

	_, err := f.prescription.Process(context.Background(), "", []byte("img"), "image/png")
	assert.ErrorIs(t, err, serverutils.ErrUpstream)
	assert.Empty(t, f.indexBuilder.built)
}

func TestPrescriptionService_EmptyImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.prescription.Process(context.Background(), "", nil, "image/png")
	assert.ErrorIs(t, err, serverutils.ErrBadRequest)
}

func TestPrescriptionService_DegradedComponents(t *testing.T) {
	f := newFixture(t)
	f.translator.err = errBoom
	f.narrator.fail = true
	f.indexBuilder.err = errBoom

	res, err := f.prescription.Process(context.Background(), "", []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, constant.TranslationFailedMessage, res.TranslatedText)
	assert.False(t, res.Indexed)
	assert.False(t, res.Audio.Success)
	assert.Equal(t, "TTS API call failed: No message", res.Audio.Message)
	assert.Empty(t, res.Audio.URL)
}

func TestPrescriptionService_GetRegeneratesMissingAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.prescription.Process(ctx, "", []byte("img"), "image/png")
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.artifacts.Path(res.ChatSessionId, constant.PrescriptionAudioFile)))

	got, err := f.prescription.Get(ctx, res.ChatSessionId)
	require.NoError(t, err)
	assert.True(t, got.Audio.Success)
	assert.Len(t, f.narrator.texts, 2)
	assert.True(t, f.artifacts.Exists(res.ChatSessionId, constant.PrescriptionAudioFile))

	// audio present: no further synthesis
	_, err = f.prescription.Get(ctx, res.ChatSessionId)
	require.NoError(t, err)
	assert.Len(t, f.narrator.texts, 2)
}

func TestPrescriptionService_GetWithoutUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.chatbot.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.prescription.Get(ctx, created.Id)
	assert.ErrorIs(t, err, serverutils.ErrNotFound)

	_, err = f.prescription.Get(ctx, "missing")
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}
