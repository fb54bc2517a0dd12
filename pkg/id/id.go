package id

import (
	"github.com/gofrs/uuid"
)

// NewBatchID random id for a committed batch
func NewBatchID() string {
	return uuid.Must(uuid.NewV4()).String()
}
