package session

import (
	"encoding/json"
	"fmt"
)

// EncodeUser serialises u for the user slot.
func EncodeUser(u *User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("failed to encode user: %w", err)
	}
	return string(b), nil
}

// DecodeUser parses the user slot. An empty slot decodes to nil.
func DecodeUser(raw string) (*User, error) {
	if raw == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUser, err)
	}
	return &u, nil
}

// Encode renders s as slot name to value pairs.
func Encode(slots Slots, s Session) (map[string]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	user, err := EncodeUser(s.User)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		slots.AccessToken:  s.AccessToken,
		slots.RefreshToken: s.RefreshToken,
		slots.User:         user,
	}, nil
}
