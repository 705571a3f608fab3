package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/llm"
	"github.com/clinicai/clinicai-go/internal/models"
)

const extractionOutput = `{
  "summary": "John Smith, 45, presents with acute chest pain and shortness of breath.",
  "patient_info": {"name": "John Smith", "age": 45, "id_number": "MS123456"},
  "symptoms": [
    {"name": "chest pain", "duration": "2 hours", "intensity": "severe"},
    {"name": "shortness of breath", "duration": "2 hours", "intensity": "moderate"}
  ],
  "reason_for_visit": "Acute onset of severe chest pain"
}`

func TestProcessExtraction_HappyPath(t *testing.T) {
	store := newMemStore()
	gen := &fakeGenerator{responses: []any{extractionOutput}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, p.ProcessExtraction(context.Background(), *transcription))

	record, err := store.GetClinicalRecord(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", record.SessionID)
	assert.Equal(t, "John Smith", record.PatientInfo.Name)
	assert.Equal(t, 45, record.PatientInfo.Age)
	assert.Equal(t, "Acute onset of severe chest pain", record.ReasonForVisit)
	require.Len(t, record.Symptoms, 2)
	require.Len(t, record.ClassifiedSymptoms, 2)
	for _, s := range record.ClassifiedSymptoms {
		assert.NotEmpty(t, s.Severity)
		assert.GreaterOrEqual(t, s.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, s.ConfidenceScore, 1.0)
	}

	updated, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExtractionFinished, updated.Status)
}

func TestProcessExtraction_EmptyText(t *testing.T) {
	store := newMemStore()
	gen := &fakeGenerator{responses: []any{extractionOutput}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)
	transcription.Text = ""

	err = p.ProcessExtraction(context.Background(), *transcription)
	require.Error(t, err)
	assert.Equal(t, KindLogic, KindOf(err))

	// Short-circuits before any model call; no clinical record appears.
	assert.Zero(t, gen.callCount())
	_, err = store.GetClinicalRecord(context.Background(), "s1")
	assert.ErrorIs(t, err, db.ErrNotFound)

	updated, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExtractionError, updated.Status)
	assert.NotEmpty(t, updated.ErrorMessage)
}

func TestProcessExtraction_MalformedModelOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"no json at all", "I could not find any medical information."},
		{"truncated json", `{"summary": "partial`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			gen := &fakeGenerator{responses: []any{tt.output}}
			p := newTestPipeline(store, gen, nil)

			seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
			transcription, err := store.GetTranscription(context.Background(), "s1")
			require.NoError(t, err)

			err = p.ProcessExtraction(context.Background(), *transcription)
			require.Error(t, err)
			assert.Equal(t, KindModel, KindOf(err))
			assert.ErrorIs(t, err, llm.ErrMalformedOutput)

			// No partial structured result is accepted.
			_, err = store.GetClinicalRecord(context.Background(), "s1")
			assert.ErrorIs(t, err, db.ErrNotFound)

			updated, err := store.GetTranscription(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusExtractionError, updated.Status)
		})
	}
}

func TestProcessExtraction_FencedJSONOutput(t *testing.T) {
	store := newMemStore()
	gen := &fakeGenerator{responses: []any{"```json\n" + extractionOutput + "\n```"}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, p.ProcessExtraction(context.Background(), *transcription))

	record, err := store.GetClinicalRecord(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", record.PatientInfo.Name)
}

func TestProcessExtraction_EmptySymptomList(t *testing.T) {
	store := newMemStore()
	gen := &fakeGenerator{responses: []any{`{
		"summary": "Routine checkup, no complaints.",
		"patient_info": {"name": "Ana Lee"},
		"symptoms": [],
		"reason_for_visit": "Annual physical"
	}`}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, p.ProcessExtraction(context.Background(), *transcription))

	record, err := store.GetClinicalRecord(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, record.ClassifiedSymptoms)
}

func TestProcessExtraction_StoreWriteFailure(t *testing.T) {
	store := newMemStore()
	store.failSaveClinicalRecord = errors.New("write conflict")
	gen := &fakeGenerator{responses: []any{extractionOutput}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)

	err = p.ProcessExtraction(context.Background(), *transcription)
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))

	updated, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExtractionError, updated.Status)
}

func TestProcessExtraction_RedeliveryIsIdempotent(t *testing.T) {
	store := newMemStore()
	gen := &fakeGenerator{responses: []any{extractionOutput}}
	p := newTestPipeline(store, gen, nil)

	seedTranscription(t, store, "s1", models.StatusTranscriptionFinished)
	transcription, err := store.GetTranscription(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, p.ProcessExtraction(context.Background(), *transcription))
	require.NoError(t, p.ProcessExtraction(context.Background(), *transcription))

	// A single generator call; the rerun resolved to a no-op.
	assert.Equal(t, 1, gen.callCount())
}
