package pipeline

import (
	"context"
	"fmt"

	"github.com/clinicai/clinicai-go/internal/llm"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
)

// ProcessExtraction turns a finished transcription into a clinical record:
// one structured model call followed by embedding-based severity
// classification of each extracted symptom. Persisting the clinical record
// is what triggers the diagnosis stage.
func (p *Pipeline) ProcessExtraction(ctx context.Context, t models.Transcription) error {
	if t.SessionID == "" {
		return stageErrf(StageExtraction, KindLogic, "session_id is required")
	}

	log := p.log.With("session_id", t.SessionID, "stage", StageExtraction)

	current, err := p.status.Current(ctx, t.SessionID)
	if err != nil {
		return err
	}
	if current.Rank() >= models.StatusExtractionFinished.Rank() {
		log.Info("extraction already committed, skipping")
		return nil
	}

	log.Info("starting information extraction")

	err = p.recordTiming(metrics.OpExtraction, func() error {
		return p.extractAndClassify(ctx, t)
	})
	if err != nil {
		log.Error("information extraction failed", "error", err)
		p.status.Fail(ctx, t.SessionID, models.StatusExtractionError, err)
		return err
	}

	if err := p.status.Advance(ctx, t.SessionID, models.StatusExtractionFinished, ""); err != nil {
		log.Error("failed to mark extraction finished", "error", err)
		return err
	}
	log.Info("information extraction finished")
	return nil
}

func (p *Pipeline) extractAndClassify(ctx context.Context, t models.Transcription) error {
	// Asserted before any model call.
	if t.Text == "" {
		return stageErrf(StageExtraction, KindLogic, "empty transcription")
	}

	if err := p.status.Advance(ctx, t.SessionID, models.StatusExtractionStarted, ""); err != nil {
		return err
	}

	extraction, err := p.extractMedicalInformation(ctx, t.Text)
	if err != nil {
		return err
	}

	classified, err := p.severity.Classify(ctx, extraction.Symptoms)
	if err != nil {
		return err
	}
	p.log.Debug("classified symptoms", "session_id", t.SessionID, "count", len(classified))

	record := models.NewClinicalRecord(t.SessionID, extraction, classified)
	if err := p.deps.Store.SaveClinicalRecord(ctx, record); err != nil {
		return stageErr(StageExtraction, KindTransient, fmt.Errorf("save clinical record: %w", err))
	}
	return nil
}

func (p *Pipeline) extractMedicalInformation(ctx context.Context, text string) (models.MedicalExtraction, error) {
	var extraction models.MedicalExtraction

	output, err := p.generate(ctx, func(ctx context.Context) (string, error) {
		return p.deps.Generator.GenerateWithSystem(ctx, buildExtractionSystemPrompt(), buildExtractionUserPrompt(text))
	})
	if err != nil {
		return extraction, stageErr(StageExtraction, KindTransient, fmt.Errorf("extraction model call: %w", err))
	}

	if err := llm.DecodeJSON(output, &extraction); err != nil {
		return extraction, stageErr(StageExtraction, KindModel, fmt.Errorf("parse extraction output: %w", err))
	}
	return extraction, nil
}

// generate runs one model call under the llm_generate metric.
func (p *Pipeline) generate(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	var output string
	err := p.recordTiming(metrics.OpLLMGenerate, func() error {
		var err error
		output, err = call(ctx)
		return err
	})
	return output, err
}
