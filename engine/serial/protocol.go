package serial

// Writer is the low-level write side of the protocol. Every value is
// addressed by a member name; an empty name denotes an anonymous array
// element. Implementations decide how the calls are materialized.
type Writer interface {
	Version() Version

	WriteFloat(name string, v float32) error
	WriteDouble(name string, v float64) error
	WriteInt(name string, v int32) error
	WriteUInt(name string, v uint32) error
	WriteInt64(name string, v int64) error
	WriteUInt64(name string, v uint64) error
	WriteBool(name string, v bool) error
	WriteString(name string, v string) error

	StartObject(name string) error
	FinishObject() error
	StartArray(name string, tag Tag) error
	FinishArray() error
}

// Reader is the low-level read side of the protocol. Version is fixed for
// the lifetime of the reader.
type Reader interface {
	Version() Version
	// HasMember reports whether the current object still holds an unread
	// member with the given name.
	HasMember(name string) bool

	ReadFloat(name string) (float32, error)
	ReadDouble(name string) (float64, error)
	ReadInt(name string) (int32, error)
	ReadUInt(name string) (uint32, error)
	ReadInt64(name string) (int64, error)
	ReadUInt64(name string) (uint64, error)
	ReadBool(name string) (bool, error)
	ReadString(name string) (string, error)

	StartObject(name string) error
	FinishObject() error
	// StartArray enters an array and returns its element count.
	StartArray(name string, tag Tag) (int, error)
	FinishArray() error
}

// Serializable objects emit their own fields.
type Serializable interface {
	Serialize(s *Serializer)
}

// Named objects carry a registered name written next to their fields.
type Named interface {
	Name() string
	SetName(name string)
}

// Drawable objects carry a visibility flag written next to their fields.
type Drawable interface {
	IsVisible() bool
	SetVisible(visible bool)
}
