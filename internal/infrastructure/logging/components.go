package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Logger names used by the factory's components. Child loggers extend them
// with a dot, so "host" also covers "host.memory" and "host.breaker".
const (
	ComponentDispatch = "dispatch"
	ComponentFactory  = "factory"
	ComponentHost     = "host"
	ComponentHTTP     = "http"
	ComponentGRPC     = "grpc"
	ComponentEvents   = "events"
)

// ComponentLevels maps a logger name to its minimum level
type ComponentLevels map[string]zapcore.Level

// ParseComponentLevels reads a "name=level,name=level" list
func ParseComponentLevels(s string) (ComponentLevels, error) {
	out := ComponentLevels{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, raw, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid component level %q: want name=level", item)
		}
		level, err := parseLevel(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		out[name] = level
	}
	return out, nil
}

// levelFor resolves the longest dotted prefix of name that has an override
func (c ComponentLevels) levelFor(name string, fallback zapcore.Level) zapcore.Level {
	for name != "" {
		if level, ok := c[name]; ok {
			return level
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return fallback
}

// floor is the most verbose level any component may log at
func (c ComponentLevels) floor(base zapcore.Level) zapcore.Level {
	low := base
	for _, level := range c {
		if level < low {
			low = level
		}
	}
	return low
}

// componentCore drops entries below the level of the logger that wrote them
type componentCore struct {
	zapcore.Core
	base      zapcore.Level
	overrides ComponentLevels
}

func newComponentCore(core zapcore.Core, base zapcore.Level, overrides ComponentLevels) zapcore.Core {
	return &componentCore{Core: core, base: base, overrides: overrides}
}

func (c *componentCore) Enabled(level zapcore.Level) bool {
	return level >= c.overrides.floor(c.base) && c.Core.Enabled(level)
}

func (c *componentCore) With(fields []zapcore.Field) zapcore.Core {
	return &componentCore{Core: c.Core.With(fields), base: c.base, overrides: c.overrides}
}

func (c *componentCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.overrides.levelFor(ent.LoggerName, c.base) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
