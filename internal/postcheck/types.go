package postcheck

// Level grades a network verdict.
type Level int

const (
	LevelOK Level = iota
	LevelWarn
	LevelBlock
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelWarn:
		return "warn"
	case LevelBlock:
		return "block"
	}
	return "unknown"
}

// Verdict is the per-network compliance result for a draft. Messages are
// ordered by rule and each is prefixed with the network label.
type Verdict struct {
	Level    Level
	Messages []string
}

// MediaKind buckets an attached file for rule evaluation.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindDoc   MediaKind = "doc"
	KindOther MediaKind = "other"
)

// MediaMeta is derived, read-only metadata for one attached file. Zero
// Width/Height/Duration means the probe could not determine the value; SizeMB
// is always known from the byte length.
type MediaMeta struct {
	Kind     MediaKind
	Width    int
	Height   int
	Duration float64 // seconds
	SizeMB   float64
	Name     string
}
