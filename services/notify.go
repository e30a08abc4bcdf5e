package services

// Notifier is the outbound notification sink. Delivery is
// fire-and-forget; a nil Notifier disables notifications (tests).
type Notifier interface {
	Send(userID, title, message, kind string, payload map[string]interface{})
}

func notify(n Notifier, userID, title, message, kind string, payload map[string]interface{}) {
	if n == nil {
		return
	}
	n.Send(userID, title, message, kind, payload)
}
