package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is the four-bucket content difficulty classification, ordered
// beginner < intermediate < advanced < expert. It is distinct from the
// continuous per-user reading-level estimate.
type Level int

const (
	LevelBeginner Level = iota + 1
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

var levelNames = map[Level]string{
	LevelBeginner:     "beginner",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced",
	LevelExpert:       "expert",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// HarderThan reports whether l is strictly harder than other on the
// four-level order.
func (l Level) HarderThan(other Level) bool {
	return l.Valid() && other.Valid() && l > other
}

// Midpoint returns the level's position on a normalized [0,1] difficulty
// scale, used when comparing against normalized user ability.
func (l Level) Midpoint() float64 {
	switch l {
	case LevelBeginner:
		return 0.20
	case LevelIntermediate:
		return 0.45
	case LevelAdvanced:
		return 0.70
	case LevelExpert:
		return 0.90
	default:
		return 0.45
	}
}

func ParseLevel(raw string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for l, name := range levelNames {
		if name == key {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unrecognized reading level %q", raw)
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
