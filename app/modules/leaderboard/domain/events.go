package leaderboarddomain

import (
	"encoding/json"
	"fmt"
)

// Topics.
const (
	// ScoreboardChangesV1 carries row-level changes to the scoreboard table. The
	// change kind travels in the EventMetadataKey message metadata.
	ScoreboardChangesV1 = "scoreboard.changes.v1"
	// TownUsageSubmittedV1 carries a single town's new readings from an external producer.
	TownUsageSubmittedV1 = "energy.town_usage.submitted.v1"
	// TownUsageRejectedV1 reports a submission that could not be applied.
	TownUsageRejectedV1 = "energy.town_usage.rejected.v1"

	EventMetadataKey = "event"
)

// ChangeKind is the kind of row change carried by a scoreboard event.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// ChangePayload is the wire body of a scoreboard change event.
type ChangePayload struct {
	Record    *TownScoreRecord `json:"record,omitempty"`
	OldRecord *TownScoreRecord `json:"old_record,omitempty"`
}

// ChangeEvent is a validated scoreboard change. Record is set for inserts and
// updates, OldRecord for deletes.
type ChangeEvent struct {
	Kind      ChangeKind
	Record    *TownScoreRecord
	OldRecord *TownScoreRecord
}

// TownUsageSubmittedPayload reports new readings for one town, matched by name.
type TownUsageSubmittedPayload struct {
	TownName    string   `json:"town_name"`
	Electricity *float64 `json:"electricity,omitempty"`
	Gas         *float64 `json:"gas,omitempty"`
	Recycle     *float64 `json:"recycle,omitempty"`
}

// TownUsageRejectedPayload echoes a rejected submission with the reason.
type TownUsageRejectedPayload struct {
	TownName string `json:"town_name"`
	Reason   string `json:"reason"`
}

// DecodeChangeEvent validates a raw change event. Any error wraps ErrMalformedEvent.
func DecodeChangeEvent(kind string, payload []byte) (ChangeEvent, error) {
	var body ChangePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return ChangeEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev := ChangeEvent{Kind: ChangeKind(kind), Record: body.Record, OldRecord: body.OldRecord}
	switch ev.Kind {
	case ChangeInsert, ChangeUpdate:
		if ev.Record == nil {
			return ChangeEvent{}, fmt.Errorf("%w: %s without record", ErrMalformedEvent, kind)
		}
	case ChangeDelete:
		if ev.OldRecord == nil {
			return ChangeEvent{}, fmt.Errorf("%w: DELETE without old_record", ErrMalformedEvent)
		}
	default:
		return ChangeEvent{}, fmt.Errorf("%w: %w %q", ErrMalformedEvent, ErrUnknownEventKind, kind)
	}
	return ev, nil
}

// Encode returns the wire body for the event.
func (e ChangeEvent) Encode() ([]byte, error) {
	return json.Marshal(ChangePayload{Record: e.Record, OldRecord: e.OldRecord})
}

func NewInsertEvent(r TownScoreRecord) ChangeEvent {
	return ChangeEvent{Kind: ChangeInsert, Record: &r}
}

func NewUpdateEvent(r, old TownScoreRecord) ChangeEvent {
	return ChangeEvent{Kind: ChangeUpdate, Record: &r, OldRecord: &old}
}

func NewDeleteEvent(old TownScoreRecord) ChangeEvent {
	return ChangeEvent{Kind: ChangeDelete, OldRecord: &old}
}
