package ports

import (
	"context"

	"workshopd/internal/domain/workshop"
)

// Notifier dispatches customer/staff messages. Delivery is fire-and-forget
// from the engine's point of view.
type Notifier interface {
	Notify(ctx context.Context, n workshop.Notification) error
}
