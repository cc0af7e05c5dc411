package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewPersonaClampsPainDegree(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{9, 5},
	}
	for _, c := range cases {
		p := NewPersona(PersonaParams{
			CoreProblemID: uuid.New(),
			Name:          "Dana",
			Industry:      "Logistics",
			Role:          "Dispatcher",
			PainDegree:    c.in,
		})
		if p.PainDegree != c.want {
			t.Fatalf("pain degree %d: got %d, want %d", c.in, p.PainDegree, c.want)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("clamped persona should validate: %v", err)
		}
	}
}

func TestNewPersonaDefaultsPainDegree(t *testing.T) {
	p := NewPersona(PersonaParams{CoreProblemID: uuid.New(), Name: "x", Industry: "y", Role: "z"})
	if p.PainDegree != 3 {
		t.Fatalf("got %d, want default 3", p.PainDegree)
	}
}

func TestPersonaValidateRejectsBlankFields(t *testing.T) {
	p := NewPersona(PersonaParams{CoreProblemID: uuid.New(), Name: "  ", Industry: "y", Role: "z"})
	if err := p.Validate(); err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestCoreProblemValidateLength(t *testing.T) {
	short := NewCoreProblem(uuid.New(), "too short", 1)
	if err := short.Validate(); err == nil {
		t.Fatal("expected error for input under 10 chars")
	}

	ok := NewCoreProblem(uuid.New(), "users cannot find their files quickly", 1)
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	tooLong := NewCoreProblem(uuid.New(), string(long), 1)
	if err := tooLong.Validate(); err == nil {
		t.Fatal("expected error for input over 1000 chars")
	}
}

func TestNewCoreProblemFloorsVersion(t *testing.T) {
	p := NewCoreProblem(uuid.New(), "some problem statement here", 0)
	if p.Version != 1 {
		t.Fatalf("got version %d, want 1", p.Version)
	}
}

func TestCanvasStateValidate(t *testing.T) {
	good := NewCanvasState(uuid.New(), []byte(`[]`), []byte(`[{"id":"e1"}]`), nil)
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := NewCanvasState(uuid.New(), []byte(`{"not":"an array"}`), []byte(`[]`), nil)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-array nodes")
	}

	empty := NewCanvasState(uuid.New(), nil, []byte(`[]`), nil)
	if err := empty.Validate(); err == nil {
		t.Fatal("expected error for missing nodes")
	}
}

func TestMappingValidateRelevanceRange(t *testing.T) {
	over := 1.5
	m := NewSolutionPainPointMapping(uuid.New(), uuid.New(), &over)
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for relevance above 1")
	}

	in := 0.72
	m = NewSolutionPainPointMapping(uuid.New(), uuid.New(), &in)
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m = NewSolutionPainPointMapping(uuid.New(), uuid.New(), nil)
	if err := m.Validate(); err != nil {
		t.Fatalf("nil relevance should be allowed: %v", err)
	}
}

func TestNewStateEventDefaultsActor(t *testing.T) {
	e := NewStateEvent(uuid.New(), EventProblemValidated, []byte(`{}`), nil, "")
	if e.CreatedBy != ActorUser {
		t.Fatalf("got %q, want %q", e.CreatedBy, ActorUser)
	}
}

func TestParseWorkflowStepFallback(t *testing.T) {
	if got := ParseWorkflowStep("user_stories"); got != StepUserStories {
		t.Fatalf("got %q", got)
	}
	if got := ParseWorkflowStep("bogus"); got != StepProblemInput {
		t.Fatalf("got %q, want fallback to problem_input", got)
	}
}

func TestNewUserStoryDefaultsCriteria(t *testing.T) {
	s := NewUserStory(UserStoryParams{
		ProjectID: uuid.New(),
		Title:     "Search files",
		AsA:       "knowledge worker",
		IWant:     "to search by content",
		SoThat:    "I find documents fast",
	})
	if s.AcceptanceCriteria == nil {
		t.Fatal("acceptance criteria should default to empty slice")
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
