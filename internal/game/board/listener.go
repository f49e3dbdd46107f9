package board

import (
	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/trigger"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// Listener receives movement notifications from a Board.
type Listener interface {
	OnBlocked(actorID string, from, to Point, blocker Occupant)
	OnEnterFloor(actorID string, at Point, floor Occupant)
	OnAfterMove(actorID string, from, to Point)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) OnBlocked(string, Point, Point, Occupant) {}
func (NopListener) OnEnterFloor(string, Point, Occupant)     {}
func (NopListener) OnAfterMove(string, Point, Point)         {}

// Notification describes the board change carried by a Board trigger.
type Notification struct {
	Kind     string
	ActorID  string
	From     Point
	To       Point
	Occupant Occupant
}

// Notification kinds.
const (
	EventBlocked    = "blocked"
	EventEnterFloor = "enter_floor"
	EventAfterMove  = "after_move"
)

// ActorResolver maps a board actor ID to its unit, or nil when unknown.
type ActorResolver func(id string) *unit.Unit

// BusListener forwards board notifications to a trigger bus as Board events
// and to an optional sink.
type BusListener struct {
	bus    *trigger.Bus
	logger *zap.Logger
	actors ActorResolver
	sink   func(Notification)
}

// NewBusListener creates a BusListener. actors and sink may be nil; without
// a resolver the dispatched context carries no Self.
//
// Precondition: bus and logger must be non-nil.
func NewBusListener(bus *trigger.Bus, logger *zap.Logger, actors ActorResolver, sink func(Notification)) *BusListener {
	return &BusListener{bus: bus, logger: logger, actors: actors, sink: sink}
}

func (l *BusListener) emit(e Notification) {
	l.logger.Debug("board event",
		zap.String("kind", e.Kind),
		zap.String("actor", e.ActorID),
		zap.Stringer("from", e.From),
		zap.Stringer("to", e.To),
		zap.String("occupant", e.Occupant.ID),
	)
	if l.sink != nil {
		l.sink(e)
	}
	ctx := &trigger.Context{SelfMoved: e.Kind != EventBlocked}
	if l.actors != nil {
		ctx.FillUnits(l.actors(e.ActorID), nil)
	}
	l.bus.Dispatch(trigger.Board, ctx)
}

// OnBlocked implements Listener.
func (l *BusListener) OnBlocked(actorID string, from, to Point, blocker Occupant) {
	l.emit(Notification{Kind: EventBlocked, ActorID: actorID, From: from, To: to, Occupant: blocker})
}

// OnEnterFloor implements Listener.
func (l *BusListener) OnEnterFloor(actorID string, at Point, floor Occupant) {
	l.emit(Notification{Kind: EventEnterFloor, ActorID: actorID, From: at, To: at, Occupant: floor})
}

// OnAfterMove implements Listener.
func (l *BusListener) OnAfterMove(actorID string, from, to Point) {
	l.emit(Notification{Kind: EventAfterMove, ActorID: actorID, From: from, To: to})
}
