package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

func TestSubstitutePlaceholders(t *testing.T) {
	vars := map[string]string{"problem_input": "slow builds", "step_one": "done"}
	got := SubstitutePlaceholders("Fix {problem_input} after {step_one}.", vars)
	want := "Fix slow builds after done."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSubstitutePlaceholdersLeavesUnknownMarkers(t *testing.T) {
	got := SubstitutePlaceholders("Value: {missing}", map[string]string{})
	if got != "Value: {missing}" {
		t.Fatalf("got %q", got)
	}
}

func TestWorkflowRunsLinearlyToCompletion(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	gen := &stubGenerator{responses: []string{"refined problem", "persona sketches", "solution directions"}}
	svc, err := NewWorkflowService(env.db, env.log, env.events, gen)
	if err != nil {
		t.Fatalf("failed to load workflows: %v", err)
	}

	result, err := svc.Run(ctx, "problem_to_solution", project.ID, map[string]string{
		"problem_input": "users cannot find settings",
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	wantSteps := []string{"validate_problem", "load_state", "generate_personas", "generate_solutions"}
	if len(result.Steps) != len(wantSteps) {
		t.Fatalf("got steps %v, want %v", result.Steps, wantSteps)
	}
	for i, step := range wantSteps {
		if result.Steps[i] != step {
			t.Fatalf("step %d: got %q, want %q", i, result.Steps[i], step)
		}
	}

	if !strings.Contains(gen.prompts[0], "users cannot find settings") {
		t.Fatalf("input placeholder not substituted: %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "refined problem") {
		t.Fatalf("prior step output not substituted: %q", gen.prompts[1])
	}
	if !strings.Contains(gen.prompts[2], "persona sketches") {
		t.Fatalf("persona step output not substituted: %q", gen.prompts[2])
	}

	events, err := env.events.List(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	aiEvents := 0
	for _, e := range events {
		if e.EventType == "workflow_step_completed" {
			aiEvents++
			if e.CreatedBy != "ai_agent" {
				t.Fatalf("workflow event recorded with actor %q", e.CreatedBy)
			}
		}
	}
	if aiEvents != 3 {
		t.Fatalf("got %d workflow events, want 3 (one per llm step)", aiEvents)
	}
}

func TestWorkflowNotFound(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)

	svc, err := NewWorkflowService(env.db, env.log, env.events, &stubGenerator{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Run(context.Background(), "nonexistent", project.ID, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apierr.IsCode(err, apierr.CodeWorkflowNotFound) {
		t.Fatalf("got %v, want workflow_not_found", err)
	}
}

func TestWorkflowStepNotFound(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)

	svc := &workflowService{
		db:        env.db,
		log:       env.log,
		events:    env.events,
		generator: &stubGenerator{responses: []string{"out"}},
		workflows: map[string]*compiledWorkflow{
			"dangling": {
				def: WorkflowDef{Name: "dangling", Start: "a"},
				steps: map[string]WorkflowStepDef{
					"a": {Name: "a", Tool: toolCallLLM, Prompt: "x", Next: "ghost"},
				},
			},
		},
	}

	_, err := svc.Run(context.Background(), "dangling", project.ID, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apierr.IsCode(err, apierr.CodeStepNotFound) {
		t.Fatalf("got %v, want step_not_found", err)
	}
}

func TestWorkflowListsDefinitions(t *testing.T) {
	env := newTestEnv(t)
	svc, err := NewWorkflowService(env.db, env.log, env.events, &stubGenerator{})
	if err != nil {
		t.Fatal(err)
	}
	names := svc.List()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["problem_to_solution"] || !found["brainstorm"] {
		t.Fatalf("missing expected workflows: %v", names)
	}
}
