package models

// UserStamp records which authenticated user created a row and who last
// edited it. Derived writes (winners, scores, draft team resync) leave it
// alone.
type UserStamp struct {
	CreatedBy *int `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy *int `json:"updated_by,omitempty" db:"updated_by"`
}

// Stamp marks a write by actorID. CreatedBy is only filled once. A zero
// actor is a system write and changes nothing.
func (s *UserStamp) Stamp(actorID int) {
	if actorID == 0 {
		return
	}
	if s.CreatedBy == nil {
		created := actorID
		s.CreatedBy = &created
	}
	updated := actorID
	s.UpdatedBy = &updated
}
