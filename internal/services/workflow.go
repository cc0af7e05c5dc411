package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

//go:embed workflows.yaml
var workflowDefinitions []byte

// completeSentinel ends a workflow; it is a reserved step name.
const completeSentinel = "complete"

const (
	toolCallLLM  = "call_llm"
	toolQueryDB  = "query_db"
	maxStepCount = 32
)

type WorkflowStepDef struct {
	Name   string `yaml:"name"`
	Tool   string `yaml:"tool"`
	Prompt string `yaml:"prompt"`
	Next   string `yaml:"next"`
}

type WorkflowDef struct {
	Name  string            `yaml:"name"`
	Start string            `yaml:"start"`
	Steps []WorkflowStepDef `yaml:"steps"`
}

type workflowFile struct {
	Workflows []WorkflowDef `yaml:"workflows"`
}

// WorkflowResult carries the per-step outputs of a finished run in
// execution order.
type WorkflowResult struct {
	Workflow string            `json:"workflow"`
	Steps    []string          `json:"steps"`
	Outputs  map[string]string `json:"outputs"`
}

type WorkflowService interface {
	Run(ctx context.Context, workflowName string, projectID uuid.UUID, inputs map[string]string) (*WorkflowResult, error)
	List() []string
}

type workflowService struct {
	db        *gorm.DB
	log       *logger.Logger
	events    EventService
	generator llm.Generator
	workflows map[string]*compiledWorkflow
}

type compiledWorkflow struct {
	def   WorkflowDef
	steps map[string]WorkflowStepDef
}

func NewWorkflowService(db *gorm.DB, log *logger.Logger, events EventService, generator llm.Generator) (WorkflowService, error) {
	serviceLog := log.With("service", "WorkflowService")

	var file workflowFile
	if err := yaml.Unmarshal(workflowDefinitions, &file); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definitions: %w", err)
	}

	workflows := map[string]*compiledWorkflow{}
	for _, def := range file.Workflows {
		compiled := &compiledWorkflow{def: def, steps: map[string]WorkflowStepDef{}}
		for _, step := range def.Steps {
			if step.Name == completeSentinel {
				return nil, fmt.Errorf("workflow %s uses the reserved step name %q", def.Name, completeSentinel)
			}
			compiled.steps[step.Name] = step
		}
		if _, ok := compiled.steps[def.Start]; !ok {
			return nil, fmt.Errorf("workflow %s start step %q is not defined", def.Name, def.Start)
		}
		workflows[def.Name] = compiled
	}

	serviceLog.Info("Workflows loaded", "count", len(workflows))
	return &workflowService{
		db:        db,
		log:       serviceLog,
		events:    events,
		generator: generator,
		workflows: workflows,
	}, nil
}

func (s *workflowService) List() []string {
	var names []string
	for name := range s.workflows {
		names = append(names, name)
	}
	return names
}

// Run executes a workflow from its start step until a step's next is
// "complete". Each step's output becomes a placeholder for later steps.
func (s *workflowService) Run(ctx context.Context, workflowName string, projectID uuid.UUID, inputs map[string]string) (*WorkflowResult, error) {
	wf, ok := s.workflows[workflowName]
	if !ok {
		return nil, apierr.New(404, apierr.CodeWorkflowNotFound,
			fmt.Errorf("workflow %q is not defined", workflowName))
	}

	vars := map[string]string{}
	for k, v := range inputs {
		vars[k] = v
	}

	result := &WorkflowResult{
		Workflow: workflowName,
		Outputs:  map[string]string{},
	}

	current := wf.def.Start
	for i := 0; i < maxStepCount; i++ {
		step, ok := wf.steps[current]
		if !ok {
			return nil, apierr.New(404, apierr.CodeStepNotFound,
				fmt.Errorf("workflow %q references undefined step %q", workflowName, current))
		}

		s.log.Debug("Executing workflow step", "workflow", workflowName, "step", step.Name, "tool", step.Tool)
		output, err := s.executeStep(ctx, step, projectID, vars)
		if err != nil {
			s.log.Error("Workflow step failed", "workflow", workflowName, "step", step.Name, "error", err)
			return nil, err
		}

		vars[step.Name] = output
		result.Steps = append(result.Steps, step.Name)
		result.Outputs[step.Name] = output

		if step.Tool == toolCallLLM {
			payload, err := json.Marshal(map[string]interface{}{
				"workflow": workflowName,
				"step":     step.Name,
				"output":   output,
			})
			if err != nil {
				return nil, err
			}
			if _, err := s.events.Append(ctx, nil, projectID, "workflow_step_completed", payload, nil, types.ActorAIAgent); err != nil {
				return nil, err
			}
		}

		if step.Next == completeSentinel {
			s.log.Info("Workflow complete", "workflow", workflowName, "steps", len(result.Steps))
			return result, nil
		}
		current = step.Next
	}
	return nil, fmt.Errorf("workflow %q exceeded %d steps without completing", workflowName, maxStepCount)
}

func (s *workflowService) executeStep(ctx context.Context, step WorkflowStepDef, projectID uuid.UUID, vars map[string]string) (string, error) {
	switch step.Tool {
	case toolCallLLM:
		prompt := SubstitutePlaceholders(step.Prompt, vars)
		return s.generator.Generate(ctx, prompt)
	case toolQueryDB:
		state, err := s.events.CurrentState(ctx, projectID)
		if err != nil {
			return "", err
		}
		if state == nil {
			return "{}", nil
		}
		raw, err := json.Marshal(state)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("step %q uses unknown tool %q", step.Name, step.Tool)
	}
}

// SubstitutePlaceholders replaces {key} markers with values from vars.
// Unknown placeholders are left as-is so failures are visible in prompts.
func SubstitutePlaceholders(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
