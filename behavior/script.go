package behavior

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// scriptCheck wraps a compiled tengo expression as a transition predicate.
// The expression sees the transition context as plain globals:
//
//	time_in_state_ms, activity_level, switch_rate, hour, monitoring, roll
//
// and must evaluate to a boolean, e.g.
//
//	activity_level > 0.5 && hour >= 22
type scriptCheck struct {
	compiled *tengo.Compiled
}

// CompileScriptCheck compiles a tengo boolean expression into a Check.
func CompileScriptCheck(src string) (Check, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("behavior: empty predicate script")
	}

	script := tengo.NewScript([]byte("fire := (" + src + ")"))
	_ = script.Add("time_in_state_ms", int64(0))
	_ = script.Add("activity_level", float64(0))
	_ = script.Add("switch_rate", float64(0))
	_ = script.Add("hour", int64(0))
	_ = script.Add("monitoring", false)
	_ = script.Add("roll", float64(0))
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile predicate script: %w", err)
	}

	sc := &scriptCheck{compiled: compiled}
	return sc.check, nil
}

func (s *scriptCheck) check(ctx Context) bool {
	c := s.compiled
	_ = c.Set("time_in_state_ms", ctx.TimeInState.Milliseconds())
	_ = c.Set("activity_level", ctx.ActivityLevel)
	_ = c.Set("switch_rate", ctx.SwitchRate)
	_ = c.Set("hour", int64(ctx.Hour))
	_ = c.Set("monitoring", ctx.Monitoring)
	_ = c.Set("roll", ctx.Roll)
	if err := c.Run(); err != nil {
		// a failing script never fires; the table falls through to the
		// next rule
		return false
	}
	return c.Get("fire").Bool()
}
