package events

// Topic constants for domain events emitted by the property-management core.
const (
	TopicPaymentRecorded   = "folio.payment_recorded"
	TopicFinancialsUpdated = "folio.financials_updated"
	TopicCouponApplied     = "coupon.applied"
	TopicTaskCreated       = "housekeeping.task_created"
	TopicTaskUpdated       = "housekeeping.task_updated"
	TopicRoomStatusChanged = "room.status_changed"
)

// DefaultTopics returns the canonical list of topics the UI subscribes to.
func DefaultTopics() []string {
	return []string{
		TopicPaymentRecorded,
		TopicFinancialsUpdated,
		TopicCouponApplied,
		TopicTaskCreated,
		TopicTaskUpdated,
		TopicRoomStatusChanged,
	}
}
