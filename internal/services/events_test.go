package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/types"
)

func event(eventType, data string) *types.StateEvent {
	return types.NewStateEvent(uuid.New(), eventType, []byte(data), nil, types.ActorUser)
}

func TestReduceEmptyLogIsNil(t *testing.T) {
	if state := Reduce(nil); state != nil {
		t.Fatalf("got %v, want nil", state)
	}
	if state := Reduce([]*types.StateEvent{}); state != nil {
		t.Fatalf("got %v, want nil", state)
	}
}

func TestReduceReplacesOnRegeneration(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventPersonasGenerated, `[{"name":"old"}]`),
		event(types.EventPersonasGenerated, `[{"name":"new a"},{"name":"new b"}]`),
	})
	personas, ok := state["personas"].([]interface{})
	if !ok {
		t.Fatalf("personas missing or wrong type: %v", state["personas"])
	}
	if len(personas) != 2 {
		t.Fatalf("got %d personas, want 2 (replace, not append)", len(personas))
	}
}

func TestReduceProblemValidatedReplacesProblem(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventProblemValidated, `{"validated_problem":"v1"}`),
		event(types.EventProblemValidated, `{"validated_problem":"v2"}`),
	})
	problem, ok := state["problem"].(map[string]interface{})
	if !ok {
		t.Fatalf("problem missing: %v", state)
	}
	if problem["validated_problem"] != "v2" {
		t.Fatalf("got %v, want v2", problem["validated_problem"])
	}
}

func TestReducePersonaSelectedReplacesPayloadWholesale(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventPersonaSelected, `{"persona_id":"old"}`),
		event(types.EventPersonaSelected, `{"persona_id":"abc-123","confidence":0.9}`),
	})
	payload, ok := state["active_persona_id"].(map[string]interface{})
	if !ok {
		t.Fatalf("active_persona_id must hold the whole payload, got %v", state["active_persona_id"])
	}
	if payload["persona_id"] != "abc-123" {
		t.Fatalf("got %v, want abc-123", payload["persona_id"])
	}
	if payload["confidence"] != 0.9 {
		t.Fatalf("payload fields must not be discarded: %v", payload)
	}
}

func TestReduceSolutionSelectedAccumulates(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventSolutionSelected, `{"solution_id":"s1"}`),
		event(types.EventSolutionSelected, `{"solution_id":"s2"}`),
	})
	selected, ok := state["selected_solutions"].([]interface{})
	if !ok {
		t.Fatalf("selected_solutions missing: %v", state)
	}
	if len(selected) != 2 {
		t.Fatalf("got %d selections, want 2 (append, not replace)", len(selected))
	}
}

func TestReduceUnknownEventShallowMerges(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventProblemValidated, `{"validated_problem":"v1"}`),
		event("custom_note_added", `{"note":"remember this","tag":"x"}`),
	})
	if state["note"] != "remember this" || state["tag"] != "x" {
		t.Fatalf("unknown event not merged: %v", state)
	}
	if _, ok := state["problem"]; !ok {
		t.Fatal("merge must not drop existing keys")
	}
}

func TestReduceUnknownNonObjectPayloadIgnored(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event("weird", `[1,2,3]`),
	})
	if len(state) != 0 {
		t.Fatalf("non-object unknown payload should contribute nothing, got %v", state)
	}
	if state == nil {
		t.Fatal("a non-empty log reduces to an empty state, not nil")
	}
}

func TestReduceMalformedPayloadSkipped(t *testing.T) {
	state := Reduce([]*types.StateEvent{
		event(types.EventPersonasGenerated, `[{"name":"ok"}]`),
		event("broken", `{not json`),
	})
	if _, ok := state["personas"]; !ok {
		t.Fatal("valid events must survive a malformed neighbor")
	}
}
