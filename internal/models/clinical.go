package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// PatientInfo holds the patient identification extracted from a transcript.
// Every field is best-effort; consultations rarely mention all of them.
type PatientInfo struct {
	Name        string `json:"name,omitempty"`
	Age         int    `json:"age,omitempty"`
	IDNumber    string `json:"id_number,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Symptom is a single complaint as reported by the patient.
type Symptom struct {
	Name      string `json:"name"`
	Duration  string `json:"duration,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

// MedicalExtraction is the structured output of the extraction stage's model
// call. It is a value object, never persisted on its own; the clinical record
// embeds it.
type MedicalExtraction struct {
	Summary        string      `json:"summary"`
	PatientInfo    PatientInfo `json:"patient_info"`
	Symptoms       []Symptom   `json:"symptoms"`
	ReasonForVisit string      `json:"reason_for_visit"`
}

// Severity is one of the four fixed archetypes used for symptom
// classification.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

// ClassifiedSymptom is a symptom annotated with a severity archetype chosen
// by embedding similarity and the classifier's confidence in (0,1].
type ClassifiedSymptom struct {
	Name            string   `json:"name"`
	Intensity       string   `json:"intensity,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Severity        Severity `json:"severity"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// DiagnosisProbability is one candidate diagnosis with an independent
// likelihood estimate. Probabilities are not normalized across candidates.
type DiagnosisProbability struct {
	Name        string   `json:"name"`
	Probability *float64 `json:"probability,omitempty"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
}

// DiagnosisResult is the structured output of the diagnosis reasoning step.
// The probabilities list is carried forward from here into the clinical
// record; it is never re-derived from the narrative report.
type DiagnosisResult struct {
	Summary                string                 `json:"summary"`
	DiagnosisProbabilities []DiagnosisProbability `json:"diagnosis_probabilities"`
	Conclusion             string                 `json:"conclusion"`
}

// ClinicalRecord extends a medical extraction with classified symptoms and,
// after the diagnosis stage, the composed report. Created once by the
// extraction stage and updated in place by the diagnosis stage.
type ClinicalRecord struct {
	ID                 *surrealmodels.RecordID `json:"id,omitempty"`
	SessionID          string                  `json:"session_id"`
	Summary            string                  `json:"summary"`
	PatientInfo        PatientInfo             `json:"patient_info"`
	Symptoms           []Symptom               `json:"symptoms"`
	ReasonForVisit     string                  `json:"reason_for_visit"`
	ClassifiedSymptoms []ClassifiedSymptom     `json:"classified_symptoms"`
	DiagnosisReport    string                  `json:"diagnosis_report,omitempty"`
	Diagnosis          []DiagnosisProbability  `json:"diagnosis,omitempty"`
	CreatedAt          time.Time               `json:"created_at,omitempty"`
	UpdatedAt          *time.Time              `json:"updated_at,omitempty"`
}

// NewClinicalRecord merges a medical extraction with its classified symptoms.
// Every extraction field is preserved; only session_id and the symptom
// classification are added.
func NewClinicalRecord(sessionID string, extraction MedicalExtraction, classified []ClassifiedSymptom) ClinicalRecord {
	return ClinicalRecord{
		SessionID:          sessionID,
		Summary:            extraction.Summary,
		PatientInfo:        extraction.PatientInfo,
		Symptoms:           extraction.Symptoms,
		ReasonForVisit:     extraction.ReasonForVisit,
		ClassifiedSymptoms: classified,
	}
}

// Extraction returns the embedded medical extraction value.
func (r ClinicalRecord) Extraction() MedicalExtraction {
	return MedicalExtraction{
		Summary:        r.Summary,
		PatientInfo:    r.PatientInfo,
		Symptoms:       r.Symptoms,
		ReasonForVisit: r.ReasonForVisit,
	}
}
