package models

// Document is the whole persisted aggregate. Relations are resolved by
// matching ids at query time, nothing is enforced.
type Document struct {
	Users    []User    `json:"users"`
	Profiles []Profile `json:"profiles"`
	Sections []Section `json:"sections"`
}

func NewDocument() *Document {
	return &Document{
		Users:    []User{},
		Profiles: []Profile{},
		Sections: []Section{},
	}
}

// Normalize replaces nil collections so the document always encodes as arrays.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Profiles == nil {
		d.Profiles = []Profile{}
	}
	if d.Sections == nil {
		d.Sections = []Section{}
	}
}

func (d *Document) UserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) UserByID(id int64) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) NextUserID() int64 {
	var max int64
	for _, u := range d.Users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func (d *Document) NextProfileID() int64 {
	var max int64
	for _, p := range d.Profiles {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// ProfileFor returns the first profile owned by userID.
func (d *Document) ProfileFor(userID int64) *Profile {
	for i := range d.Profiles {
		if d.Profiles[i].UserID == userID {
			return &d.Profiles[i]
		}
	}
	return nil
}

func (d *Document) Section(userID int64, id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id && d.Sections[i].UserID == userID {
			return &d.Sections[i]
		}
	}
	return nil
}

func (d *Document) HasSectionID(id string) bool {
	for _, s := range d.Sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

// RemoveSection deletes the section matching (id, userID) and reports
// whether anything was removed.
func (d *Document) RemoveSection(userID int64, id string) bool {
	for i := range d.Sections {
		if d.Sections[i].ID == id && d.Sections[i].UserID == userID {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Document) SectionsFor(userID int64) []Section {
	out := make([]Section, 0)
	for _, s := range d.Sections {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}
