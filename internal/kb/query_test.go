package kb

import (
	"strings"
	"testing"

	"github.com/clinicai/clinicai-go/internal/models"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		record models.ClinicalRecord
		want   string
	}{
		{
			name: "symptoms and reason",
			record: models.ClinicalRecord{
				ClassifiedSymptoms: []models.ClassifiedSymptom{
					{Name: "Chest Pain"},
					{Name: "Shortness of Breath"},
				},
				ReasonForVisit: "Cardiac Evaluation",
			},
			want: "chest pain shortness of breath cardiac evaluation",
		},
		{
			name: "reason only",
			record: models.ClinicalRecord{
				ReasonForVisit: "Routine checkup",
			},
			want: "routine checkup",
		},
		{
			name:   "empty record",
			record: models.ClinicalRecord{},
			want:   "",
		},
		{
			name: "unnamed symptoms skipped",
			record: models.ClinicalRecord{
				ClassifiedSymptoms: []models.ClassifiedSymptom{{Name: ""}, {Name: "fever"}},
			},
			want: "fever",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.record)
			if got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatContext(t *testing.T) {
	t.Run("empty returns fallback", func(t *testing.T) {
		got := FormatContext(nil)
		if !strings.Contains(got, "knowledge base") {
			t.Errorf("FormatContext(nil) = %q, want fallback text", got)
		}
	})

	t.Run("snippets are bulleted", func(t *testing.T) {
		got := FormatContext([]Snippet{{Content: "first"}, {Content: "second"}})
		want := "- first\n- second"
		if got != want {
			t.Errorf("FormatContext() = %q, want %q", got, want)
		}
	})
}

func TestSeedDocuments(t *testing.T) {
	docs := SeedDocuments()
	if len(docs) == 0 {
		t.Fatal("SeedDocuments() is empty")
	}
	for i, doc := range docs {
		if doc.Content == "" {
			t.Errorf("document %d has empty content", i)
		}
		if doc.Topic == "" || doc.Urgency == "" {
			t.Errorf("document %d missing metadata: topic=%q urgency=%q", i, doc.Topic, doc.Urgency)
		}
	}
}
