package entity

import (
	"encoding/json"
	"time"

	"github.com/tickr-network/tickr/common"
)

// EventMetadata is the cached off-chain metadata document an event's URI
// points at, maintained by the metadata sync worker.
type EventMetadata struct {
	Event     common.Address
	Payload   json.RawMessage
	FetchedAt time.Time
}
