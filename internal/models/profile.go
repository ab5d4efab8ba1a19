package models

import "encoding/json"

// Profile is the user profile as served by the backend and cached locally
// next to the credential. A profile write always replaces the whole record.
//
// The backend is free to add fields the client does not know about; those
// survive a cache round trip untouched in Extra.
type Profile struct {
	ID                        string
	Email                     string
	FullName                  string
	Phone                     string
	HomeAddress               string
	Country                   string
	Pincode                   string
	InitialScreeningCompleted bool

	// Extra holds backend fields this client version does not model.
	Extra map[string]json.RawMessage
}

// profileJSON mirrors the wire representation of the known profile fields.
type profileJSON struct {
	ID                        string `json:"id"`
	Email                     string `json:"email"`
	FullName                  string `json:"fullName"`
	Phone                     string `json:"phone,omitempty"`
	HomeAddress               string `json:"homeAddress,omitempty"`
	Country                   string `json:"country,omitempty"`
	Pincode                   string `json:"pincode,omitempty"`
	InitialScreeningCompleted bool   `json:"initialScreeningCompleted"`
}

var knownProfileKeys = map[string]struct{}{
	"id": {}, "email": {}, "fullName": {}, "phone": {},
	"homeAddress": {}, "country": {}, "pincode": {},
	"initialScreeningCompleted": {},
}

// UnmarshalJSON decodes the known fields and stashes every other key in
// Extra, so a profile cached by an older client keeps newer backend fields.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var known profileJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownProfileKeys {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}

	*p = Profile{
		ID:                        known.ID,
		Email:                     known.Email,
		FullName:                  known.FullName,
		Phone:                     known.Phone,
		HomeAddress:               known.HomeAddress,
		Country:                   known.Country,
		Pincode:                   known.Pincode,
		InitialScreeningCompleted: known.InitialScreeningCompleted,
		Extra:                     raw,
	}
	return nil
}

// MarshalJSON emits the known fields merged with Extra. Known fields win on
// a key collision.
func (p Profile) MarshalJSON() ([]byte, error) {
	knownData, err := json.Marshal(profileJSON{
		ID:                        p.ID,
		Email:                     p.Email,
		FullName:                  p.FullName,
		Phone:                     p.Phone,
		HomeAddress:               p.HomeAddress,
		Country:                   p.Country,
		Pincode:                   p.Pincode,
		InitialScreeningCompleted: p.InitialScreeningCompleted,
	})
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return knownData, nil
	}

	merged := make(map[string]json.RawMessage, len(p.Extra)+8)
	for k, v := range p.Extra {
		merged[k] = v
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(knownData, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy so that shared readers never observe a profile
// mutated in place.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			cp.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &cp
}
