package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/clinicai/clinicai-go/internal/embedding"
	"github.com/clinicai/clinicai-go/internal/models"
)

// severityArchetypes are the four fixed reference descriptions symptoms are
// classified against. Order matters: index i pairs with severityLevels[i].
var severityArchetypes = []string{
	"Minor discomfort, slight symptoms, minimal impact on daily activities, barely noticeable",
	"Noticeable discomfort, some impact on daily activities, manageable symptoms, requires attention",
	"Significant discomfort, major impact on daily activities, intense symptoms, major limitations",
	"Life-threatening, emergency symptoms, extreme discomfort, requires urgent medical intervention",
}

var severityLevels = []models.Severity{
	models.SeverityMild,
	models.SeverityModerate,
	models.SeveritySevere,
	models.SeverityCritical,
}

// SeverityClassifier assigns each symptom the severity archetype with the
// smallest embedding distance. Confidence is 1 minus that cosine distance,
// so an exact match scores 1.
type SeverityClassifier struct {
	embedder embedding.Embedder

	mu   sync.Mutex
	refs [][]float32
}

// NewSeverityClassifier creates a classifier over the given embedder. The
// archetype embeddings are computed lazily on first use and cached.
func NewSeverityClassifier(embedder embedding.Embedder) *SeverityClassifier {
	return &SeverityClassifier{embedder: embedder}
}

// Classify annotates symptoms with severity archetypes. An empty symptom
// list returns an empty result without touching the embedder.
func (c *SeverityClassifier) Classify(ctx context.Context, symptoms []models.Symptom) ([]models.ClassifiedSymptom, error) {
	if len(symptoms) == 0 {
		return []models.ClassifiedSymptom{}, nil
	}

	refs, err := c.referenceVectors(ctx)
	if err != nil {
		return nil, stageErr("severity_classification", KindTransient, err)
	}

	classified := make([]models.ClassifiedSymptom, 0, len(symptoms))
	for _, symptom := range symptoms {
		text := symptom.Name
		if symptom.Duration != "" {
			text = fmt.Sprintf("%s lasting %s", symptom.Name, symptom.Duration)
		}

		vec, err := c.embedder.Embed(ctx, text)
		if err != nil {
			return nil, stageErr("severity_classification", KindTransient, fmt.Errorf("embed symptom %q: %w", symptom.Name, err))
		}

		best := 0
		bestSim := float64(-1)
		for i, ref := range refs {
			if sim := cosineSimilarity(vec, ref); sim > bestSim {
				bestSim = sim
				best = i
			}
		}

		// Cosine distance is 1 - similarity; confidence inverts it back.
		confidence := bestSim
		if confidence < 0 {
			confidence = 0
		}

		classified = append(classified, models.ClassifiedSymptom{
			Name:            symptom.Name,
			Intensity:       symptom.Intensity,
			Duration:        symptom.Duration,
			Severity:        severityLevels[best],
			ConfidenceScore: confidence,
		})
	}

	return classified, nil
}

func (c *SeverityClassifier) referenceVectors(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refs != nil {
		return c.refs, nil
	}
	refs, err := c.embedder.EmbedBatch(ctx, severityArchetypes)
	if err != nil {
		return nil, fmt.Errorf("embed severity archetypes: %w", err)
	}
	if len(refs) != len(severityArchetypes) {
		return nil, fmt.Errorf("expected %d archetype embeddings, got %d", len(severityArchetypes), len(refs))
	}
	c.refs = refs
	return refs, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
