package trace

import "time"

// Kind tells a span boundary from an instant event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k != 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // config, discovery, reporting
	ScopeFile                    // load, tree, lint or correct one file
	ScopeRule                    // one rule against one file
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeFile:   "file",
	ScopeRule:   "rule",
}

func (s Scope) String() string {
	if s != 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in the trace. Names follow the "file:<path>" and
// "rule:<identifier>" conventions so that a dump can be grepped per file.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	GID      uint64 // goroutine that emitted the event
	Name     string
	Detail   string
	Extra    map[string]string
}

// point builds an instant event stamped with the current time and goroutine.
func point(kind Kind, scope Scope, name, detail string) *Event {
	return &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   kind,
		Scope:  scope,
		GID:    goroutineID(),
		Name:   name,
		Detail: detail,
	}
}
