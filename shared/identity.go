package shared

// Identity is the caller's ambient identity: UserID when a valid token was
// presented, DeviceID always. The progress store consults it on every call;
// a guest session upgrades to a cloud session mid-lifetime without
// reconstruction.
type Identity struct {
	UserID   string
	DeviceID string
}

func (id Identity) Authenticated() bool {
	return id.UserID != ""
}
