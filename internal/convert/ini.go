package convert

import (
	"strconv"
	"strings"
	"time"
)

const iniFileName = "domjudge-problem.ini"

var nameReplacer = strings.NewReplacer("'", "`", `"`, "`")

// configAspect writes domjudge-problem.ini.
type configAspect struct {
	p *Problem
}

func (a *configAspect) Name() string { return configAspectName }

func (a *configAspect) Process(ws *Workspace, env *Env) error {
	d := a.p.diag(configAspectName)
	d.infof("Add '%s'", iniFileName)

	lines := []string{
		"probid = " + a.p.cfg.ProblemID(),
		"name = " + nameReplacer.Replace(a.p.meta.Name),
		"timelimit = " + formatSeconds(a.p.meta.TimeLimit),
		"color = " + a.p.cfg.Color(),
	}

	var sb strings.Builder
	for _, line := range lines {
		d.infof("  %s", line)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if err := ws.WriteFile([]byte(sb.String()), iniFileName); err != nil {
		return d.errorf("%v", err)
	}
	return nil
}

// formatSeconds prints d in seconds with at least one decimal, e.g. 1.0 or
// 1.25.
func formatSeconds(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
