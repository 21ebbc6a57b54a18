package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// recordingStep appends its name to a shared log when executed.
type recordingStep struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *model.PageRequest) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

// TestPipelineExecute verifies ordering and error behavior.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("steps run in insertion order", func(t *testing.T) {
		t.Parallel()
		var log []string
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log},
			&recordingStep{name: "third", log: &log},
		)

		if err := p.Execute(context.Background(), &model.PageRequest{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(log) != 3 || log[0] != "first" || log[2] != "third" {
			t.Errorf("unexpected execution order: %v", log)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()
		var log []string
		stepErr := errors.New("boom")
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log, err: stepErr},
			&recordingStep{name: "second", log: &log},
		)

		if err := p.Execute(context.Background(), &model.PageRequest{}); !errors.Is(err, stepErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if len(log) != 1 {
			t.Errorf("expected only the failing step to run, got %v", log)
		}
	})

	t.Run("continues past errors when configured", func(t *testing.T) {
		t.Parallel()
		var log []string
		stepErr := errors.New("boom")
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&recordingStep{name: "first", log: &log, err: stepErr},
			&recordingStep{name: "second", log: &log},
		)

		if err := p.Execute(context.Background(), &model.PageRequest{}); !errors.Is(err, stepErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if len(log) != 2 {
			t.Errorf("expected both steps to run, got %v", log)
		}
	})

	t.Run("cancelled context stops execution", func(t *testing.T) {
		t.Parallel()
		var log []string
		p := New()
		p.AddStep(&recordingStep{name: "never", log: &log})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := p.Execute(ctx, &model.PageRequest{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(log) != 0 {
			t.Errorf("expected no steps to run, got %v", log)
		}
	})

	t.Run("step names reflect insertion order", func(t *testing.T) {
		t.Parallel()
		var log []string
		p := New()
		p.AddSteps(
			&recordingStep{name: "resolve", log: &log},
			&recordingStep{name: "fold", log: &log},
		)

		names := p.StepNames()
		if p.StepCount() != 2 || names[0] != "resolve" || names[1] != "fold" {
			t.Errorf("unexpected step names: %v", names)
		}
	})
}
