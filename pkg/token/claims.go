package token

import (
	"encoding/json"
	"strings"
)

// Claims is the decoded token payload. Signed tokens carry versioned
// JSON; two historical shapes are still decoded for tokens issued
// before the format was versioned.
type Claims struct {
	Version         int    `json:"v,omitempty"`
	PrincipalID     string `json:"sub"`
	DeviceSessionID string `json:"sid,omitempty"`
}

// EncodeClaims marshals claims into the current payload format.
func EncodeClaims(principalID, deviceSessionID string) (string, error) {
	c := Claims{Version: 1, PrincipalID: principalID, DeviceSessionID: deviceSessionID}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeClaims parses a verified payload. Accepted shapes, newest
// first: versioned JSON {"v":1,"sub":...,"sid":...}, the historical
// JSON shape {"principalId":...,"deviceSessionId":...}, and a bare
// principal-id string.
func DecodeClaims(payload string) (Claims, bool) {
	if strings.HasPrefix(strings.TrimSpace(payload), "{") {
		var aux struct {
			Version         int    `json:"v"`
			Sub             string `json:"sub"`
			Sid             string `json:"sid"`
			PrincipalID     string `json:"principalId"`
			DeviceSessionID string `json:"deviceSessionId"`
		}
		if err := json.Unmarshal([]byte(payload), &aux); err != nil {
			return Claims{}, false
		}
		c := Claims{Version: aux.Version, PrincipalID: aux.Sub, DeviceSessionID: aux.Sid}
		if c.PrincipalID == "" {
			c.PrincipalID = aux.PrincipalID
			c.DeviceSessionID = aux.DeviceSessionID
		}
		if c.PrincipalID == "" {
			return Claims{}, false
		}
		return c, true
	}

	if payload == "" {
		return Claims{}, false
	}
	return Claims{PrincipalID: payload}, true
}
