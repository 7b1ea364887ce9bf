package push

import "strconv"

// Payload is the JSON document the service worker receives.
type Payload struct {
	Title          string `json:"title"`
	Body           string `json:"body,omitempty"`
	URL            string `json:"url,omitempty"`
	Tag            string `json:"tag,omitempty"`
	NotificationID *uint  `json:"notificationId,omitempty"`
}

// Tag builds the coalescing tag "{eventType}-{entityID}", or
// "{eventType}-general" without an entity, so a device shows one alert per
// entity and event type.
func Tag(eventType string, entityID *uint) string {
	if entityID == nil {
		return eventType + "-general"
	}
	return eventType + "-" + strconv.FormatUint(uint64(*entityID), 10)
}

// Delivery is one payload addressed to every subscription of one user.
type Delivery struct {
	UserID  uint
	Payload Payload
}

// Result counts settled sends.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Add returns the sum of two results.
func (r Result) Add(o Result) Result {
	return Result{Sent: r.Sent + o.Sent, Failed: r.Failed + o.Failed}
}
