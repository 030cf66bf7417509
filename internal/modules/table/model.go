// Restaurant tables and their QR targets.
package table

import (
	"time"

	"tably/internal/types"
)

type Table struct {
	ID          types.ID  `json:"id"`
	TenantID    types.ID  `json:"tenant_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
