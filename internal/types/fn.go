package types

// GroupID identifies a group of related operations inside a catalog.
type GroupID uint32

// FnID identifies an operation across the whole catalog.
type FnID uint32

// Param is a named parameter of an operation.
type Param struct {
	Name string
	Type TypeID
}

// FnInfo describes one callable operation.
type FnInfo struct {
	ID     FnID
	Name   string
	Params []Param
	Ret    TypeID // NoTypeID when the operation returns nothing
}

// HasParams reports whether the operation takes any parameter.
func (f *FnInfo) HasParams() bool {
	return f != nil && len(f.Params) > 0
}

// HasRet reports whether the operation declares a return type.
func (f *FnInfo) HasRet() bool {
	return f != nil && f.Ret != NoTypeID
}

// Group is a named collection of operations sharing one relation table.
// Operation indices used by relation tables are positions in Fns.
type Group struct {
	ID   GroupID
	Name string
	Fns  []FnInfo
}
