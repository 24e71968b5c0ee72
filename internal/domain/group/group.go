package group

import "time"

// Group is a customer classification group. Customers carry a set of group
// IDs plus one default group that must be a member of that set.
type Group struct {
	GroupID    int64     `json:"groupId"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	CreateDate time.Time `json:"createDate"`
}
