package prefs

import "fmt"

// Identity is the cached display name and avatar color announced on the
// presence socket.
type Identity struct {
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// avatarColors is the pool a new identity's color is drawn from.
var avatarColors = []string{"#7FB4CA", "#98BB6C", "#957FB8", "#FFA066", "#D27E99", "#FF5D62"}

// LoadIdentity reads the cached identity, generating and persisting one
// when none exists. The generated name is stable for the host user.
func LoadIdentity(storage *Storage, fallbackName string) (Identity, error) {
	var id Identity
	found, err := storage.Load(KeyIdentity, &id)
	if err != nil {
		return Identity{}, err
	}
	if found && id.DisplayName != "" {
		return id, nil
	}

	if fallbackName == "" {
		fallbackName = "anonymous"
	}
	id = Identity{
		DisplayName: fallbackName,
		Color:       avatarColors[hashString(fallbackName)%len(avatarColors)],
	}
	if err := storage.Save(KeyIdentity, id); err != nil {
		return id, err
	}
	return id, nil
}

// SaveIdentity persists an updated identity.
func SaveIdentity(storage *Storage, id Identity) error {
	return storage.Save(KeyIdentity, id)
}

func hashString(s string) int {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// String implements fmt.Stringer for log output.
func (i Identity) String() string {
	return fmt.Sprintf("%s (%s)", i.DisplayName, i.Color)
}
