package model

// Notification is an operator alert about something that happened on the platform
type Notification struct {
	Title  string
	Fields []NotificationField
	Body   string
	Link   string
}

// NotificationField is a labelled value shown next to the notification title
type NotificationField struct {
	Name  string
	Value string
}
