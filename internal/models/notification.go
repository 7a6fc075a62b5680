package models

// Notification is a user-created alert on a property. PropertyName is
// denormalized at creation time so the card stays renderable even if the
// property later disappears from the catalog.
type Notification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PropertyID   string `json:"propertyId"`
	Frequency    string `json:"frequency"`
	PropertyName string `json:"propertyName"`
}
