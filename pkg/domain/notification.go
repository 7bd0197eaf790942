package domain

// NotificationStatus is the severity of a notification
type NotificationStatus string

// notification statuses
const (
	StatusInfo    NotificationStatus = "info"
	StatusSuccess NotificationStatus = "success"
	StatusError   NotificationStatus = "error"
)

// NotificationToast is the only notification type sent to surfaces
const NotificationToast = "toast"

// Notification is a status event delivered to the surface which triggered classification
type Notification struct {
	Type    string             `json:"type"`
	Message string             `json:"message"`
	Status  NotificationStatus `json:"status"`
}
