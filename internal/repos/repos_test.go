package repos

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/db"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

// openTestDB opens a uniquely named shared-cache in-memory database so
// every pooled connection sees the same schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.NewMigrator(gdb, logger.Nop()).Run(db.All()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	return gdb
}

// seedProject creates user -> workspace -> project and returns the project.
func seedProject(t *testing.T, gdb *gorm.DB) *types.Project {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	user, err := NewUserRepo(gdb, log).Create(ctx, nil, types.NewUser(uuid.New().String()+"@example.com"))
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	ws, err := NewWorkspaceRepo(gdb, log).Create(ctx, nil, types.NewWorkspace(user.ID, "Test Workspace"))
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	project, err := NewProjectRepo(gdb, log).Create(ctx, nil, types.NewProject(ws.ID, "Test Project"))
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func seedProblem(t *testing.T, gdb *gorm.DB, projectID uuid.UUID) *types.CoreProblem {
	t.Helper()
	problem := types.NewCoreProblem(projectID, "users lose track of scattered project notes", 1)
	created, err := NewCoreProblemRepo(gdb, logger.Nop()).Create(context.Background(), nil, problem)
	if err != nil {
		t.Fatalf("failed to create core problem: %v", err)
	}
	return created
}

func TestStateEventAppendAssignsMonotonicSequence(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	repo := NewStateEventRepo(gdb, logger.Nop())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		e, err := repo.Append(ctx, nil, types.NewStateEvent(
			project.ID, types.EventProblemValidated, []byte(`{}`), nil, types.ActorUser))
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
		if e.SequenceNumber != int64(i) {
			t.Fatalf("append %d: got seq %d, want %d", i, e.SequenceNumber, i)
		}
	}

	events, err := repo.GetByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, e := range events {
		if e.SequenceNumber != int64(i+1) {
			t.Fatalf("event %d out of order: seq %d", i, e.SequenceNumber)
		}
	}
}

func TestStateEventSequencesAreScopedPerProject(t *testing.T) {
	gdb := openTestDB(t)
	p1 := seedProject(t, gdb)
	p2 := seedProject(t, gdb)
	repo := NewStateEventRepo(gdb, logger.Nop())
	ctx := context.Background()

	if _, err := repo.Append(ctx, nil, types.NewStateEvent(p1.ID, "a", []byte(`{}`), nil, "")); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Append(ctx, nil, types.NewStateEvent(p1.ID, "b", []byte(`{}`), nil, "")); err != nil {
		t.Fatal(err)
	}
	e, err := repo.Append(ctx, nil, types.NewStateEvent(p2.ID, "a", []byte(`{}`), nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if e.SequenceNumber != 1 {
		t.Fatalf("second project should start at 1, got %d", e.SequenceNumber)
	}
}

func TestPersonaSetActiveDeactivatesSiblings(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	problem := seedProblem(t, gdb, project.ID)
	repo := NewPersonaRepo(gdb, logger.Nop())
	ctx := context.Background()

	var personas []*types.Persona
	for i := 0; i < 3; i++ {
		personas = append(personas, types.NewPersona(types.PersonaParams{
			CoreProblemID: problem.ID,
			Name:          "P",
			Industry:      "Tech",
			Role:          "Dev",
			Position:      i,
		}))
	}
	if _, err := repo.Create(ctx, nil, personas); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.SetActive(ctx, nil, problem.ID, personas[0].ID); err != nil {
		t.Fatalf("first activation failed: %v", err)
	}
	if err := repo.SetActive(ctx, nil, problem.ID, personas[2].ID); err != nil {
		t.Fatalf("second activation failed: %v", err)
	}

	all, err := repo.GetByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	activeCount := 0
	for _, p := range all {
		if p.IsActive {
			activeCount++
			if p.ID != personas[2].ID {
				t.Fatalf("wrong persona active: %s", p.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("got %d active personas, want 1", activeCount)
	}
}

func TestPersonaSetActiveUnknownIDFails(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	problem := seedProblem(t, gdb, project.ID)
	repo := NewPersonaRepo(gdb, logger.Nop())

	err := repo.SetActive(context.Background(), nil, problem.ID, uuid.New())
	if err == nil {
		t.Fatal("expected error activating unknown persona")
	}
}

func TestPersonaDeleteUnlockedPreservesLocked(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	problem := seedProblem(t, gdb, project.ID)
	repo := NewPersonaRepo(gdb, logger.Nop())
	ctx := context.Background()

	locked := types.NewPersona(types.PersonaParams{CoreProblemID: problem.ID, Name: "keep", Industry: "x", Role: "y"})
	unlocked := types.NewPersona(types.PersonaParams{CoreProblemID: problem.ID, Name: "drop", Industry: "x", Role: "y"})
	if _, err := repo.Create(ctx, nil, []*types.Persona{locked, unlocked}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetLocked(ctx, nil, locked.ID, true); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteUnlockedByCoreProblemID(ctx, nil, problem.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	remaining, err := repo.GetByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].ID != locked.ID {
		t.Fatalf("expected only the locked persona to survive, got %d rows", len(remaining))
	}
}

func TestCanvasSaveUpsertsByID(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	repo := NewCanvasStateRepo(gdb, logger.Nop())
	ctx := context.Background()

	state := types.NewCanvasState(project.ID, []byte(`[]`), []byte(`[]`), nil)
	if _, err := repo.Save(ctx, nil, state); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	state.Nodes = []byte(`[{"id":"n1"}]`)
	if _, err := repo.Save(ctx, nil, state); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	all, err := repo.GetByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d snapshots, want 1 after upsert", len(all))
	}
	if string(all[0].Nodes) != `[{"id":"n1"}]` {
		t.Fatalf("nodes not updated: %s", all[0].Nodes)
	}
}

func TestCanvasGetLatestReturnsNilWhenEmpty(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	repo := NewCanvasStateRepo(gdb, logger.Nop())

	latest, err := repo.GetLatestByProjectID(context.Background(), nil, project.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Fatal("expected nil for project with no canvas")
	}
}

func TestCoreProblemNextVersion(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	repo := NewCoreProblemRepo(gdb, logger.Nop())
	ctx := context.Background()

	v, err := repo.NextVersion(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1 for empty project", v)
	}

	seedProblem(t, gdb, project.ID)
	v, err = repo.NextVersion(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	gdb := openTestDB(t)
	project := seedProject(t, gdb)
	problem := seedProblem(t, gdb, project.ID)
	ctx := context.Background()
	log := logger.Nop()

	personaRepo := NewPersonaRepo(gdb, log)
	persona := types.NewPersona(types.PersonaParams{CoreProblemID: problem.ID, Name: "n", Industry: "i", Role: "r"})
	if _, err := personaRepo.Create(ctx, nil, []*types.Persona{persona}); err != nil {
		t.Fatal(err)
	}
	eventRepo := NewStateEventRepo(gdb, log)
	if _, err := eventRepo.Append(ctx, nil, types.NewStateEvent(project.ID, "x", []byte(`{}`), nil, "")); err != nil {
		t.Fatal(err)
	}

	if err := NewProjectRepo(gdb, log).Delete(ctx, nil, project.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var problemCount, personaCount, eventCount int64
	gdb.Model(&types.CoreProblem{}).Where("project_id = ?", project.ID).Count(&problemCount)
	gdb.Model(&types.Persona{}).Where("core_problem_id = ?", problem.ID).Count(&personaCount)
	gdb.Model(&types.StateEvent{}).Where("project_id = ?", project.ID).Count(&eventCount)
	if problemCount != 0 || personaCount != 0 || eventCount != 0 {
		t.Fatalf("cascade incomplete: problems=%d personas=%d events=%d",
			problemCount, personaCount, eventCount)
	}
}
