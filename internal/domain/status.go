package domain

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusSeated    ReservationStatus = "seated"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "no_show"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether a reservation in this status still claims its
// table's time window. Cancelled, completed and no-show reservations do not.
func (s ReservationStatus) IsActive() bool {
	return !s.IsTerminal()
}

type TableStatus string

const (
	TableAvailable    TableStatus = "available"
	TableOccupied     TableStatus = "occupied"
	TableReserved     TableStatus = "reserved"
	TableCleaning     TableStatus = "cleaning"
	TableOutOfService TableStatus = "out_of_service"
)

type WaiterStatus string

const (
	WaiterAvailable WaiterStatus = "available"
	WaiterBusy      WaiterStatus = "busy"
	WaiterOnBreak   WaiterStatus = "on_break"
	WaiterOffDuty   WaiterStatus = "off_duty"
)
