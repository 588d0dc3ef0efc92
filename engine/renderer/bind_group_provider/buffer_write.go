package bind_group_provider

// BufferWrite is one staged upload targeting a binding of a BindGroupProvider at a byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
