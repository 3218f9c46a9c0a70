package convert

// Aspect is one stage of converting a problem. Aspects run in a fixed order
// and write into the problem's workspace.
type Aspect interface {
	Name() string
	Process(ws *Workspace, env *Env) error
}

const (
	configAspectName      = "config"
	validatorAspectName   = "validator"
	dataAspectName        = "data"
	submissionsAspectName = "submissions"
)
