package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/llm"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/models"
)

// knowledgeTopK is how many knowledge-base snippets back the diagnosis
// reasoning call.
const knowledgeTopK = 3

// ProcessDiagnosis runs the three-step generation chain over a freshly
// created clinical record: diagnosis reasoning with retrieved knowledge,
// treatment planning, and report composition. The record is only updated
// after all three steps succeed; a failure in any step leaves the diagnosis
// fields unset.
func (p *Pipeline) ProcessDiagnosis(ctx context.Context, record models.ClinicalRecord) error {
	if record.SessionID == "" {
		return stageErrf(StageDiagnosis, KindLogic, "session_id is required")
	}

	log := p.log.With("session_id", record.SessionID, "stage", StageDiagnosis)

	current, err := p.status.Current(ctx, record.SessionID)
	if err != nil {
		return err
	}
	if current.Rank() >= models.StatusDiagnosisFinished.Rank() {
		log.Info("diagnosis already committed, skipping")
		return nil
	}

	log.Info("starting diagnosis generation")

	err = p.recordTiming(metrics.OpDiagnosis, func() error {
		return p.generateDiagnosis(ctx, record)
	})
	if err != nil {
		log.Error("diagnosis generation failed", "error", err)
		p.status.Fail(ctx, record.SessionID, models.StatusDiagnosisError, err)
		return err
	}

	if err := p.status.Advance(ctx, record.SessionID, models.StatusDiagnosisFinished, ""); err != nil {
		log.Error("failed to mark diagnosis finished", "error", err)
		return err
	}
	log.Info("diagnosis generation finished")
	return nil
}

func (p *Pipeline) generateDiagnosis(ctx context.Context, record models.ClinicalRecord) error {
	if err := p.status.Advance(ctx, record.SessionID, models.StatusDiagnosisStarted, ""); err != nil {
		return err
	}

	knowledge := p.retrieveKnowledge(ctx, record)

	// Step 1: diagnosis reasoning. The probability list persisted at the
	// end comes from this structured output, never from the narrative.
	output, err := p.generate(ctx, func(ctx context.Context) (string, error) {
		return p.deps.Generator.Generate(ctx, buildDiagnosisPrompt(record, knowledge))
	})
	if err != nil {
		return stageErr(StageDiagnosis, KindTransient, fmt.Errorf("diagnosis reasoning call: %w", err))
	}

	var diagnosis models.DiagnosisResult
	if err := llm.DecodeJSON(output, &diagnosis); err != nil {
		return stageErr(StageDiagnosis, KindModel, fmt.Errorf("parse diagnosis output: %w", err))
	}

	diagnosisJSON, err := json.Marshal(diagnosis)
	if err != nil {
		return stageErr(StageDiagnosis, KindLogic, fmt.Errorf("serialize diagnosis: %w", err))
	}

	// Step 2: treatment planning.
	treatmentPlan, err := p.generate(ctx, func(ctx context.Context) (string, error) {
		return p.deps.Generator.Generate(ctx, buildTreatmentPlanPrompt(string(diagnosisJSON)))
	})
	if err != nil {
		return stageErr(StageDiagnosis, KindTransient, fmt.Errorf("treatment plan call: %w", err))
	}

	// Step 3: report composition. If this fails, steps 1 and 2 are
	// discarded; nothing is saved.
	report, err := p.generate(ctx, func(ctx context.Context) (string, error) {
		return p.deps.Generator.Generate(ctx, buildReportPrompt(string(diagnosisJSON), treatmentPlan))
	})
	if err != nil {
		return stageErr(StageDiagnosis, KindTransient, fmt.Errorf("report composition call: %w", err))
	}
	if report == "" {
		return stageErrf(StageDiagnosis, KindModel, "report composition returned empty output")
	}

	if err := p.deps.Store.SaveDiagnosis(ctx, record.SessionID, report, diagnosis.DiagnosisProbabilities); err != nil {
		return stageErr(StageDiagnosis, KindTransient, fmt.Errorf("save diagnosis: %w", err))
	}
	return nil
}

// retrieveKnowledge queries the knowledge base for context supporting the
// diagnosis reasoning call. The knowledge base is guidance, not a hard
// dependency; any failure degrades to a fallback sentence.
func (p *Pipeline) retrieveKnowledge(ctx context.Context, record models.ClinicalRecord) string {
	if p.deps.Retriever == nil {
		return kb.FormatContext(nil)
	}

	query := kb.BuildQuery(record)
	if query == "" {
		return kb.FormatContext(nil)
	}

	var snippets []kb.Snippet
	err := p.recordTiming(metrics.OpKBSearch, func() error {
		var err error
		snippets, err = p.deps.Retriever.Search(ctx, query, knowledgeTopK)
		return err
	})
	if err != nil {
		p.log.Warn("knowledge base retrieval failed", "session_id", record.SessionID, "error", err)
		return "Medical knowledge base temporarily unavailable."
	}
	return kb.FormatContext(snippets)
}
