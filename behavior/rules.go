package behavior

import (
	"fmt"
	"time"
)

// Context carries the inputs a transition rule may consult. It is rebuilt
// fresh for every evaluation; rules are pure functions of it.
type Context struct {
	TimeInState   time.Duration
	ActivityLevel float64
	SwitchRate    float64
	Hour          int // local hour of day, 0-23
	Monitoring    bool
	Roll          float64 // one uniform draw in [0,1), shared by all rules tried this evaluation
}

// Check reports whether a rule fires for the given context.
type Check func(ctx Context) bool

// Rule pairs a target state with its firing condition. Rules for a state
// are tried in table order; the first match wins.
type Rule struct {
	To    StateID
	Check Check
}

func nightHour(hour int) bool {
	return hour >= 22 || hour < 6
}

func afterWithChance(min time.Duration, chance float64) Check {
	return func(ctx Context) bool {
		return ctx.TimeInState > min && ctx.Roll < chance
	}
}

func sleepPressure(min time.Duration, nightChance, dayChance float64) Check {
	return func(ctx Context) bool {
		if ctx.TimeInState <= min {
			return false
		}
		chance := dayChance
		if nightHour(ctx.Hour) {
			chance = nightChance
		}
		return ctx.Roll < chance
	}
}

func switchRateAbove(rate float64) Check {
	return func(ctx Context) bool {
		return ctx.SwitchRate > rate
	}
}

func switchRateCalm(rate float64, min time.Duration) Check {
	return func(ctx Context) bool {
		return ctx.SwitchRate < rate && ctx.TimeInState > min
	}
}

func wakeOnActivity(level float64, min time.Duration) Check {
	return func(ctx Context) bool {
		return ctx.ActivityLevel > level && ctx.TimeInState > min
	}
}

// checkRegistry maps manifest predicate kinds to checker constructors. Pet
// manifests describe transitions as kind + thresholds; the registry turns
// them into the same compiled checks the built-in table uses.
var checkRegistry = map[string]func(args map[string]any) (Check, error){
	"always": func(map[string]any) (Check, error) {
		return func(Context) bool { return true }, nil
	},
	"after_with_chance": func(args map[string]any) (Check, error) {
		return afterWithChance(argDuration(args, "min_ms"), argFloat(args, "chance")), nil
	},
	"sleep_pressure": func(args map[string]any) (Check, error) {
		return sleepPressure(argDuration(args, "min_ms"), argFloat(args, "night_chance"), argFloat(args, "day_chance")), nil
	},
	"switch_rate_above": func(args map[string]any) (Check, error) {
		return switchRateAbove(argFloat(args, "rate")), nil
	},
	"switch_rate_calm": func(args map[string]any) (Check, error) {
		return switchRateCalm(argFloat(args, "rate"), argDuration(args, "min_ms")), nil
	},
	"wake_on_activity": func(args map[string]any) (Check, error) {
		return wakeOnActivity(argFloat(args, "level"), argDuration(args, "min_ms")), nil
	},
	"monitoring_active": func(args map[string]any) (Check, error) {
		want := true
		if v, ok := args["active"].(bool); ok {
			want = v
		}
		return func(ctx Context) bool { return ctx.Monitoring == want }, nil
	},
	"script": func(args map[string]any) (Check, error) {
		expr, _ := args["expr"].(string)
		return CompileScriptCheck(expr)
	},
}

// CompileCheck builds a predicate from its manifest kind and arguments.
func CompileCheck(kind string, args map[string]any) (Check, error) {
	maker, ok := checkRegistry[kind]
	if !ok {
		return nil, fmt.Errorf("behavior: unknown predicate kind %q", kind)
	}
	return maker(args)
}

func argFloat(args map[string]any, key string) float64 {
	switch t := args[key].(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

func argDuration(args map[string]any, key string) time.Duration {
	return time.Duration(argFloat(args, key)) * time.Millisecond
}
