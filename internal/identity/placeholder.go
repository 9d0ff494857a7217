package identity

// placeholderSource backs check mode: deterministic identity values so a
// template can be test-rendered on a machine where the real users and groups
// do not exist.
type placeholderSource struct{}

// Placeholder returns a Source with fixed, machine-independent answers.
func Placeholder() Source {
	return placeholderSource{}
}

func (placeholderSource) Hostname() (string, error) {
	return "hostname", nil
}

func (placeholderSource) LookupUID(uid uint32) (Record, error) {
	return Record{UID: uid, Name: "user", GID: 100}, nil
}

func (placeholderSource) LookupUser(name string) (Record, error) {
	return Record{UID: 1000, Name: name, GID: 100}, nil
}

func (placeholderSource) Groups(r Record) ([]Group, error) {
	return []Group{
		{GID: 100, Name: "users"},
		{GID: 1000, Name: r.Name},
	}, nil
}
