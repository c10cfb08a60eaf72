package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile is the public biography of a user. Besides the fixed columns it
// carries free-form fields (titre, bio, photo, links...) that are flattened
// into the same JSON object.
type Profile struct {
	ID        int64
	UserID    int64
	Nom       string
	Prenom    string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt *time.Time
}

var profileKeys = map[string]bool{
	"id":         true,
	"user_id":    true,
	"nom":        true,
	"prenom":     true,
	"created_at": true,
	"updated_at": true,
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+len(profileKeys))
	for k, v := range p.Fields {
		if !profileKeys[k] {
			out[k] = v
		}
	}
	out["id"] = p.ID
	out["user_id"] = p.UserID
	out["nom"] = p.Nom
	out["prenom"] = p.Prenom
	if !p.CreatedAt.IsZero() {
		out["created_at"] = p.CreatedAt
	}
	if p.UpdatedAt != nil {
		out["updated_at"] = *p.UpdatedAt
	}
	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Profile{}
	for k, v := range raw {
		var err error
		switch k {
		case "id":
			err = json.Unmarshal(v, &p.ID)
		case "user_id":
			err = json.Unmarshal(v, &p.UserID)
		case "nom":
			p.Nom, err = decodeOptionalString(v)
		case "prenom":
			p.Prenom, err = decodeOptionalString(v)
		case "created_at":
			if string(v) != "null" {
				err = json.Unmarshal(v, &p.CreatedAt)
			}
		case "updated_at":
			if string(v) != "null" {
				var t time.Time
				if err = json.Unmarshal(v, &t); err == nil {
					p.UpdatedAt = &t
				}
			}
		default:
			var value any
			if err = json.Unmarshal(v, &value); err == nil {
				if p.Fields == nil {
					p.Fields = make(map[string]any)
				}
				p.Fields[k] = value
			}
		}
		if err != nil {
			return fmt.Errorf("profile field %q: %w", k, err)
		}
	}
	return nil
}

// Merge applies a shallow patch. Server-controlled keys (id, user_id,
// created_at, updated_at) are ignored.
func (p *Profile) Merge(patch map[string]json.RawMessage) error {
	for k, v := range patch {
		switch k {
		case "id", "user_id", "created_at", "updated_at":
			continue
		case "nom", "prenom":
			s, err := decodeOptionalString(v)
			if err != nil {
				return fmt.Errorf("%s must be a string", k)
			}
			if k == "nom" {
				p.Nom = s
			} else {
				p.Prenom = s
			}
		default:
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				return fmt.Errorf("invalid value for %s", k)
			}
			if p.Fields == nil {
				p.Fields = make(map[string]any)
			}
			p.Fields[k] = value
		}
	}
	return nil
}

func decodeOptionalString(v json.RawMessage) (string, error) {
	if len(v) == 0 || string(v) == "null" {
		return "", nil
	}
	var s string
	err := json.Unmarshal(v, &s)
	return s, err
}
