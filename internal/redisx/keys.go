package redisx

import "time"

const (
	// Whole document: doc:{document_key}
	KeyDocument = "doc:%s"

	// Unreadable document kept for inspection: doc:{document_key}:corrupt:{timestamp}
	KeyCorruptDocument = "doc:%s:corrupt:%s"

	// Order board entry: order_status:{order_id} -> {"status": "...", "type": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusBoard = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
