package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicai/clinicai-go/internal/models"
)

func TestSeverityClassifier_EmptySymptoms(t *testing.T) {
	classifier := NewSeverityClassifier(archetypeEmbedder(nil))

	got, err := classifier.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = classifier.Classify(context.Background(), []models.Symptom{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeverityClassifier_PicksNearestArchetype(t *testing.T) {
	tests := []struct {
		name    string
		symptom models.Symptom
		// vector for the symptom's query text
		vector []float32
		want   models.Severity
	}{
		{
			name:    "critical",
			symptom: models.Symptom{Name: "crushing chest pain", Duration: "30 minutes"},
			vector:  []float32{0.05, 0, 0.1, 0.99},
			want:    models.SeverityCritical,
		},
		{
			name:    "mild",
			symptom: models.Symptom{Name: "slight itch", Duration: "1 day"},
			vector:  []float32{0.99, 0.1, 0, 0},
			want:    models.SeverityMild,
		},
		{
			name:    "moderate without duration",
			symptom: models.Symptom{Name: "persistent cough"},
			vector:  []float32{0.2, 0.95, 0.1, 0},
			want:    models.SeverityModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryText := tt.symptom.Name
			if tt.symptom.Duration != "" {
				queryText = tt.symptom.Name + " lasting " + tt.symptom.Duration
			}
			embedder := archetypeEmbedder(map[string][]float32{queryText: tt.vector})
			classifier := NewSeverityClassifier(embedder)

			got, err := classifier.Classify(context.Background(), []models.Symptom{tt.symptom})
			require.NoError(t, err)
			require.Len(t, got, 1)

			assert.Equal(t, tt.symptom.Name, got[0].Name)
			assert.Equal(t, tt.symptom.Duration, got[0].Duration)
			assert.Equal(t, tt.want, got[0].Severity)
			assert.Greater(t, got[0].ConfidenceScore, 0.0)
			assert.LessOrEqual(t, got[0].ConfidenceScore, 1.0)
		})
	}
}

func TestSeverityClassifier_ExactArchetypeMatchScoresOne(t *testing.T) {
	embedder := archetypeEmbedder(map[string][]float32{
		"emergency symptoms lasting now": {0, 0, 0, 1},
	})
	classifier := NewSeverityClassifier(embedder)

	got, err := classifier.Classify(context.Background(), []models.Symptom{
		{Name: "emergency symptoms", Duration: "now"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.SeverityCritical, got[0].Severity)
	assert.InDelta(t, 1.0, got[0].ConfidenceScore, 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
