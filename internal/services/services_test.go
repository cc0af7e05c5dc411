package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/db"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

// stubGenerator returns canned responses keyed by call order.
type stubGenerator struct {
	responses []string
	calls     int
	prompts   []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.calls >= len(g.responses) {
		return "", nil
	}
	resp := g.responses[g.calls]
	g.calls++
	return resp, nil
}

func (g *stubGenerator) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	text, err := g.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(text), out)
}

type testEnv struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	wsRepo      repos.WorkspaceRepo
	projectRepo repos.ProjectRepo
	problemRepo repos.CoreProblemRepo
	personaRepo repos.PersonaRepo
	painRepo    repos.PainPointRepo
	solRepo     repos.SolutionRepo
	mapRepo     repos.SolutionMappingRepo
	storyRepo   repos.UserStoryRepo
	canvasRepo  repos.CanvasStateRepo
	eventRepo   repos.StateEventRepo
	events      EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	// a uniquely named shared-cache in-memory database, so every pooled
	// connection sees the same schema
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	log := logger.Nop()
	if err := db.NewMigrator(gdb, log).Run(db.All()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	env := &testEnv{
		db:          gdb,
		log:         log,
		userRepo:    repos.NewUserRepo(gdb, log),
		wsRepo:      repos.NewWorkspaceRepo(gdb, log),
		projectRepo: repos.NewProjectRepo(gdb, log),
		problemRepo: repos.NewCoreProblemRepo(gdb, log),
		personaRepo: repos.NewPersonaRepo(gdb, log),
		painRepo:    repos.NewPainPointRepo(gdb, log),
		solRepo:     repos.NewSolutionRepo(gdb, log),
		mapRepo:     repos.NewSolutionMappingRepo(gdb, log),
		storyRepo:   repos.NewUserStoryRepo(gdb, log),
		canvasRepo:  repos.NewCanvasStateRepo(gdb, log),
		eventRepo:   repos.NewStateEventRepo(gdb, log),
	}
	env.events = NewEventService(gdb, log, env.eventRepo)
	return env
}

func (env *testEnv) transfer() TransferService {
	return NewTransferService(env.db, env.log,
		env.projectRepo, env.problemRepo, env.personaRepo, env.painRepo,
		env.solRepo, env.mapRepo, env.storyRepo, env.canvasRepo)
}

// seedSubtree builds a project with one problem, two personas, pain
// points, solutions, a mapping, a story and a canvas snapshot.
func (env *testEnv) seedSubtree(t *testing.T) *types.Project {
	t.Helper()
	ctx := context.Background()

	user, err := env.userRepo.Create(ctx, nil, types.NewUser("seed@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := env.wsRepo.Create(ctx, nil, types.NewWorkspace(user.ID, "WS"))
	if err != nil {
		t.Fatal(err)
	}
	project, err := env.projectRepo.Create(ctx, nil, types.NewProject(ws.ID, "Original"))
	if err != nil {
		t.Fatal(err)
	}

	problem := types.NewCoreProblem(project.ID, "teams lose context when switching tools", 1)
	if _, err := env.problemRepo.Create(ctx, nil, problem); err != nil {
		t.Fatal(err)
	}

	p1 := types.NewPersona(types.PersonaParams{CoreProblemID: problem.ID, Name: "Maya", Industry: "SaaS", Role: "PM", Position: 0})
	p2 := types.NewPersona(types.PersonaParams{CoreProblemID: problem.ID, Name: "Ed", Industry: "Retail", Role: "Ops", Position: 1})
	if _, err := env.personaRepo.Create(ctx, nil, []*types.Persona{p1, p2}); err != nil {
		t.Fatal(err)
	}

	pp := types.NewPainPoint(types.PainPointParams{PersonaID: p1.ID, Description: "tab overload"})
	if _, err := env.painRepo.Create(ctx, nil, []*types.PainPoint{pp}); err != nil {
		t.Fatal(err)
	}

	sol := types.NewSolution(types.SolutionParams{ProjectID: project.ID, PersonaID: p1.ID, Title: "Unified inbox", Description: "one place"})
	if _, err := env.solRepo.Create(ctx, nil, []*types.Solution{sol}); err != nil {
		t.Fatal(err)
	}

	rel := 0.9
	if _, err := env.mapRepo.Create(ctx, nil, []*types.SolutionPainPointMapping{
		types.NewSolutionPainPointMapping(sol.ID, pp.ID, &rel),
	}); err != nil {
		t.Fatal(err)
	}

	story := types.NewUserStory(types.UserStoryParams{
		ProjectID: project.ID, Title: "T", AsA: "PM", IWant: "context", SoThat: "speed",
	})
	if _, err := env.storyRepo.Create(ctx, nil, []*types.UserStory{story}); err != nil {
		t.Fatal(err)
	}

	if _, err := env.canvasRepo.Save(ctx, nil,
		types.NewCanvasState(project.ID, []byte(`[]`), []byte(`[]`), nil)); err != nil {
		t.Fatal(err)
	}

	return project
}

func TestDuplicateCopiesSubtreeWithFreshIDs(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	dup, err := env.transfer().Duplicate(ctx, project.ID, "")
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if dup.ID == project.ID {
		t.Fatal("duplicate must get a fresh project ID")
	}
	if dup.Name != "Original (Copy)" {
		t.Fatalf("got name %q", dup.Name)
	}

	problem, err := env.problemRepo.GetLatestByProjectID(ctx, nil, dup.ID)
	if err != nil || problem == nil {
		t.Fatalf("duplicated problem missing: %v", err)
	}
	personas, err := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(personas) != 2 {
		t.Fatalf("got %d personas, want 2", len(personas))
	}
	for _, p := range personas {
		if p.CoreProblemID != problem.ID {
			t.Fatal("persona not re-parented to new problem")
		}
	}

	stories, err := env.storyRepo.GetByProjectID(ctx, nil, dup.ID)
	if err != nil || len(stories) != 1 {
		t.Fatalf("duplicated stories wrong: %d, %v", len(stories), err)
	}
	canvas, err := env.canvasRepo.GetLatestByProjectID(ctx, nil, dup.ID)
	if err != nil || canvas == nil {
		t.Fatalf("duplicated canvas missing: %v", err)
	}
}

func TestDuplicateSkipsOrphanedChildren(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	// a pain point whose persona is outside the exported subtree
	stray := types.NewPainPoint(types.PainPointParams{PersonaID: uuid.New(), Description: "stray"})

	raw, err := env.transfer().Export(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	var export ProjectExport
	if err := json.Unmarshal(raw, &export); err != nil {
		t.Fatal(err)
	}
	export.PainPoints = append(export.PainPoints, stray)

	mutated, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}

	user, err := env.userRepo.Create(ctx, nil, types.NewUser("t2@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := env.wsRepo.Create(ctx, nil, types.NewWorkspace(user.ID, "target"))
	if err != nil {
		t.Fatal(err)
	}

	imported, err := env.transfer().Import(ctx, ws.ID, mutated)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	problem, err := env.problemRepo.GetLatestByProjectID(ctx, nil, imported.ID)
	if err != nil || problem == nil {
		t.Fatal("imported problem missing")
	}
	personas, _ := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	var ids []uuid.UUID
	for _, p := range personas {
		ids = append(ids, p.ID)
	}
	points, err := env.painRepo.GetByPersonaIDs(ctx, nil, ids)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range points {
		if p.Description == "stray" {
			t.Fatal("orphaned pain point must be skipped, not imported")
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	raw, err := env.transfer().Export(ctx, project.ID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	user, err := env.userRepo.Create(ctx, nil, types.NewUser("import@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := env.wsRepo.Create(ctx, nil, types.NewWorkspace(user.ID, "Import Target"))
	if err != nil {
		t.Fatal(err)
	}

	imported, err := env.transfer().Import(ctx, ws.ID, raw)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if imported.ID == project.ID {
		t.Fatal("import must re-key the project")
	}
	if imported.WorkspaceID != ws.ID {
		t.Fatal("import must land in the target workspace")
	}
	if imported.Name != "Original" {
		t.Fatalf("got name %q", imported.Name)
	}

	problem, err := env.problemRepo.GetLatestByProjectID(ctx, nil, imported.ID)
	if err != nil || problem == nil {
		t.Fatal("imported problem missing")
	}
	personas, _ := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	if len(personas) != 2 {
		t.Fatalf("got %d personas, want 2", len(personas))
	}
}

func TestExportKeepsSolutionsAcrossProblemVersions(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	v2 := types.NewCoreProblem(project.ID, "a sharper restatement of the original problem", 2)
	if _, err := env.problemRepo.Create(ctx, nil, v2); err != nil {
		t.Fatal(err)
	}

	raw, err := env.transfer().Export(ctx, project.ID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var export ProjectExport
	if err := json.Unmarshal(raw, &export); err != nil {
		t.Fatal(err)
	}

	if len(export.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1 (solutions belong to the project, not the latest problem's personas)", len(export.Solutions))
	}
	if export.Solutions[0].ProjectID != project.ID {
		t.Fatalf("exported solution carries project %s, want %s", export.Solutions[0].ProjectID, project.ID)
	}
	if len(export.Mappings) != 1 {
		t.Fatalf("got %d mappings, want 1", len(export.Mappings))
	}
}

func TestImportRejectsBlankProjectName(t *testing.T) {
	env := newTestEnv(t)
	raw := []byte(`{"format_version":1,"project":{"name":"  "}}`)

	_, err := env.transfer().Import(context.Background(), uuid.New(), raw)
	if err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestImportRejectsReferentialMismatch(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	raw, err := env.transfer().Export(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	var export ProjectExport
	if err := json.Unmarshal(raw, &export); err != nil {
		t.Fatal(err)
	}
	export.Personas[0].CoreProblemID = uuid.New()
	mutated, _ := json.Marshal(export)

	_, err = env.transfer().Import(ctx, uuid.New(), mutated)
	if err == nil {
		t.Fatal("expected referential mismatch error")
	}
}

func TestWorkspaceSetActiveIsExclusiveAndAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userRepo.Create(ctx, nil, types.NewUser("ws@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewWorkspaceService(env.db, env.log, env.wsRepo, env.projectRepo)

	ws1, err := svc.Create(ctx, user.ID, "First")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, user.ID, "Second"); err != nil {
		t.Fatal(err)
	}

	if err := svc.SetActive(ctx, user.ID, ws1.ID); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	if err := svc.SetActive(ctx, user.ID, uuid.New()); err == nil {
		t.Fatal("expected not_found for unknown workspace")
	}

	all, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	activeCount := 0
	for _, ws := range all {
		if ws.IsActive {
			activeCount++
			if ws.ID != ws1.ID {
				t.Fatalf("wrong workspace active: %s", ws.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("got %d active workspaces, want exactly 1", activeCount)
	}
}

func TestPersonaRegeneratePreservesLocked(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	problem, err := env.problemRepo.GetLatestByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	personas, err := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		t.Fatal(err)
	}
	lockedID := personas[0].ID
	if err := env.personaRepo.SetLocked(ctx, nil, lockedID, true); err != nil {
		t.Fatal(err)
	}

	gen := &stubGenerator{responses: []string{
		`[{"name":"Fresh","industry":"Health","role":"Nurse","pain_degree":4}]`,
	}}
	svc := NewPersonaService(env.db, env.log, env.problemRepo, env.personaRepo, env.events, gen)

	result, err := svc.Regenerate(ctx, project.ID)
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	foundLocked := false
	foundOld := false
	for _, p := range result {
		if p.ID == lockedID {
			foundLocked = true
		}
		if p.ID == personas[1].ID {
			foundOld = true
		}
	}
	if !foundLocked {
		t.Fatal("locked persona must survive regeneration")
	}
	if foundOld {
		t.Fatal("unlocked persona must be replaced")
	}
}

func TestPersonaRegenerateFillsFreedPositions(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	problem, err := env.problemRepo.GetLatestByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	personas, err := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		t.Fatal(err)
	}
	// lock the persona holding the middle slot (position 1)
	lockedID := personas[1].ID
	if err := env.personaRepo.SetLocked(ctx, nil, lockedID, true); err != nil {
		t.Fatal(err)
	}

	gen := &stubGenerator{responses: []string{
		`[{"name":"A","industry":"X","role":"R","pain_degree":2},
		  {"name":"B","industry":"Y","role":"S","pain_degree":3}]`,
	}}
	svc := NewPersonaService(env.db, env.log, env.problemRepo, env.personaRepo, env.events, gen)

	result, err := svc.Regenerate(ctx, project.ID)
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	seen := map[int]uuid.UUID{}
	for _, p := range result {
		if other, dup := seen[p.Position]; dup {
			t.Fatalf("position %d held by both %s and %s", p.Position, other, p.ID)
		}
		seen[p.Position] = p.ID
		if p.ID == lockedID && p.Position != 1 {
			t.Fatalf("locked persona moved to position %d", p.Position)
		}
	}
	if _, ok := seen[0]; !ok {
		t.Fatal("freed position 0 not reused")
	}
	if _, ok := seen[2]; !ok {
		t.Fatal("expected second new persona at position 2")
	}
}

func TestPersonaGenerateClampsModelPainDegree(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	gen := &stubGenerator{responses: []string{
		`[{"name":"Over","industry":"X","role":"Y","pain_degree":11}]`,
	}}
	svc := NewPersonaService(env.db, env.log, env.problemRepo, env.personaRepo, env.events, gen)

	result, err := svc.Generate(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, p := range result {
		if p.PainDegree < 1 || p.PainDegree > 5 {
			t.Fatalf("pain degree out of range: %d", p.PainDegree)
		}
	}
}

func TestSolutionSelectAppendsEvent(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	problem, _ := env.problemRepo.GetLatestByProjectID(ctx, nil, project.ID)
	personas, _ := env.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
	solutions, _ := env.solRepo.GetByPersonaID(ctx, nil, personas[0].ID)
	if len(solutions) == 0 {
		t.Fatal("seed produced no solutions")
	}

	svc := NewSolutionService(env.db, env.log, env.personaRepo, env.painRepo,
		env.solRepo, env.mapRepo, env.events, &stubGenerator{})

	if err := svc.Select(ctx, project.ID, solutions[0].ID); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	state, err := env.events.CurrentState(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	selected, ok := state["selected_solutions"].([]interface{})
	if !ok || len(selected) != 1 {
		t.Fatalf("selection not reflected in state: %v", state)
	}

	got, err := env.solRepo.GetByID(ctx, nil, solutions[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsSelected {
		t.Fatal("solution row not marked selected")
	}
}

func TestProblemSubmitRecordsVersionAndEvent(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)
	ctx := context.Background()

	gen := &stubGenerator{responses: []string{
		`{"is_valid":true,"validated_problem":"refined","feedback":"good"}`,
	}}
	svc := NewProblemService(env.db, env.log, env.problemRepo, env.projectRepo, env.events, gen)

	problem, err := svc.Submit(ctx, project.ID, "a second attempt at the problem statement")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if problem.Version != 2 {
		t.Fatalf("got version %d, want 2", problem.Version)
	}
	if !problem.IsValid || problem.ValidatedProblem == nil {
		t.Fatalf("verdict not applied: %+v", problem)
	}

	state, err := env.events.CurrentState(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := state["problem"]; !ok {
		t.Fatal("problem_validated event not reflected in state")
	}

	updated, err := env.projectRepo.GetByID(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentStep != types.StepSolutionDiscovery.String() {
		t.Fatalf("project step not advanced: %s", updated.CurrentStep)
	}
}

func TestProblemSubmitRejectsShortInput(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedSubtree(t)

	svc := NewProblemService(env.db, env.log, env.problemRepo, env.projectRepo, env.events, &stubGenerator{})
	if _, err := svc.Submit(context.Background(), project.ID, "short"); err == nil {
		t.Fatal("expected validation error")
	}
}
