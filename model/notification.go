package model

// Notification is one decoded inbox entry, ready for display.
type Notification struct {
	Text string `json:"text"`
	// Title is the group header: "Hôm nay" or "{day}/{month}".
	Title string `json:"title"`
	// Time is the Vietnam-local HH:MM display time.
	Time string `json:"time"`
}

type NotificationGroup struct {
	Title string         `json:"title"`
	Items []Notification `json:"items"`
}
