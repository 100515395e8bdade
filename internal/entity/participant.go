package entity

// Person is a participant of an event as the participants listing returns it.
type Person struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Roster is the participant listing of one event: everyone registered and the
// subset of them assigned as volunteers.
type Roster struct {
	EventID      ID       `json:"event_id"`
	TotalCount   int      `json:"total_count"`
	Participants []Person `json:"participants"`
	Volunteers   []Person `json:"volunteers"`
}

// NewRoster builds a roster and restores volunteers ⊆ participants by adding
// any volunteer the participant list is missing.
func NewRoster(eventID ID, total int, participants, volunteers []Person) Roster {
	ps := make([]Person, 0, len(participants)+len(volunteers))
	ps = append(ps, participants...)
	known := idSet(participants)
	for _, v := range volunteers {
		if _, ok := known[v.ID]; !ok {
			ps = append(ps, v)
			known[v.ID] = struct{}{}
		}
	}
	vs := make([]Person, len(volunteers))
	copy(vs, volunteers)
	if total < len(ps) {
		total = len(ps)
	}
	return Roster{EventID: eventID, TotalCount: total, Participants: ps, Volunteers: vs}
}

// Assignable lists participants that are not volunteers yet.
func (r Roster) Assignable() []Person {
	return ComputeAssignable(r.Participants, r.Volunteers)
}

func (r Roster) IsParticipant(id ID) bool {
	return indexOf(r.Participants, id) >= 0
}

func (r Roster) IsVolunteer(id ID) bool {
	return indexOf(r.Volunteers, id) >= 0
}

// Participant returns the participant record for id.
func (r Roster) Participant(id ID) (Person, bool) {
	if i := indexOf(r.Participants, id); i >= 0 {
		return r.Participants[i], true
	}
	return Person{}, false
}

// WithVolunteer returns a copy of r where id is a volunteer. Unknown or
// already assigned ids leave the copy unchanged.
func (r Roster) WithVolunteer(id ID) Roster {
	p, ok := r.Participant(id)
	if !ok || r.IsVolunteer(id) {
		return r.clone()
	}
	next := r.clone()
	next.Volunteers = append(next.Volunteers, p)
	return next
}

// WithoutVolunteer returns a copy of r where id is back among the assignable
// participants.
func (r Roster) WithoutVolunteer(id ID) Roster {
	next := r.clone()
	next.Volunteers = removeID(next.Volunteers, id)
	return next
}

func (r Roster) clone() Roster {
	next := r
	next.Participants = append([]Person(nil), r.Participants...)
	next.Volunteers = append([]Person(nil), r.Volunteers...)
	return next
}

// ComputeAssignable returns participants minus every entry whose id appears
// in volunteers. Order follows participants; neither input is modified.
func ComputeAssignable(participants, volunteers []Person) []Person {
	taken := idSet(volunteers)
	out := make([]Person, 0, len(participants))
	for _, p := range participants {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func idSet(people []Person) map[ID]struct{} {
	set := make(map[ID]struct{}, len(people))
	for _, p := range people {
		set[p.ID] = struct{}{}
	}
	return set
}

func indexOf(people []Person, id ID) int {
	for i, p := range people {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func removeID(people []Person, id ID) []Person {
	out := make([]Person, 0, len(people))
	for _, p := range people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
