package reg

// Base carries the name and property cache of a registrable object.
// Embedders supply RegisterObject.
type Base struct {
	name  string
	props Register
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) SetName(name string) {
	b.name = name
}

func (b *Base) Properties() *Register {
	return &b.props
}
