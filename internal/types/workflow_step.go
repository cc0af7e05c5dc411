package types

// WorkflowStep is the named stage a project currently sits at in the
// planning pipeline.
type WorkflowStep string

const (
	StepProblemInput      WorkflowStep = "problem_input"
	StepSolutionDiscovery WorkflowStep = "solution_discovery"
	StepFeatureSelection  WorkflowStep = "feature_selection"
	StepUserStories       WorkflowStep = "user_stories"
	StepArchitecture      WorkflowStep = "architecture"
	StepDesignSystem      WorkflowStep = "design_system"
	StepRepositorySetup   WorkflowStep = "repository_setup"
)

func (s WorkflowStep) String() string { return string(s) }

// ParseWorkflowStep maps a stored string to a step, falling back to
// problem_input for anything unrecognized.
func ParseWorkflowStep(s string) WorkflowStep {
	switch WorkflowStep(s) {
	case StepProblemInput, StepSolutionDiscovery, StepFeatureSelection,
		StepUserStories, StepArchitecture, StepDesignSystem, StepRepositorySetup:
		return WorkflowStep(s)
	default:
		return StepProblemInput
	}
}
