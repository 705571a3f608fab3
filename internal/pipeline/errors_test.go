package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation stage error", stageErr(StageTranscription, KindValidation, errors.New("bad url")), KindValidation},
		{"wrapped stage error", fmt.Errorf("handler: %w", stageErrf(StageDiagnosis, KindModel, "no json in output")), KindModel},
		{"unclassified error defaults to transient", errors.New("connection reset"), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPermanent(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindValidation, true},
		{KindLogic, true},
		{KindModel, true},
		{KindTransient, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := stageErr(StageExtraction, tt.kind, errors.New("boom"))
			assert.Equal(t, tt.want, Permanent(err))
		})
	}

	assert.False(t, Permanent(errors.New("plain i/o failure")), "unclassified errors may succeed on redelivery")
}
