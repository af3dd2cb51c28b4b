package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Catalog
	CatInfo               Code = 1000
	CatUnknownType        Code = 1001
	CatInvalidKind        Code = 1002
	CatPointerDepth       Code = 1003
	CatEmptyFlags         Code = 1004
	CatEmptyUnion         Code = 1005
	CatEmptyValueSet      Code = 1006
	CatEmptyRange         Code = 1007
	CatValueOutOfWidth    Code = 1008
	CatSliceBounds        Code = 1009
	CatInvalidWidth       Code = 1010
	CatRecursiveType      Code = 1011
	CatDuplicateName      Code = 1012
	CatReservedUnresolved Code = 1013

	// Relations
	RelInfo         Code = 2000
	RelNoGroups     Code = 2001
	RelShape        Code = 2002
	RelUnknownGroup Code = 2003
	RelEmptyGroup   Code = 2004

	// Configuration
	CfgInfo         Code = 3000
	CfgProgMaxLen   Code = 3001
	CfgStrLen       Code = 3002
	CfgPathMaxDepth Code = 3003
	CfgMissingKey   Code = 3004
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	CatInfo:               "Catalog information",
	CatUnknownType:        "Reference to an unknown type",
	CatInvalidKind:        "Invalid type kind",
	CatPointerDepth:       "Unsupported pointer depth",
	CatEmptyFlags:         "Flag type without values",
	CatEmptyUnion:         "Union without fields",
	CatEmptyValueSet:      "Empty enumerated value set",
	CatEmptyRange:         "Empty numeric range",
	CatValueOutOfWidth:    "Value does not fit the number width",
	CatSliceBounds:        "Invalid slice bounds",
	CatInvalidWidth:       "Unsupported number width",
	CatRecursiveType:      "Type contains itself unconditionally",
	CatDuplicateName:      "Duplicate name",
	CatReservedUnresolved: "Type declared but never defined",
	RelInfo:               "Relation information",
	RelNoGroups:           "No relation tables",
	RelShape:              "Relation table does not match its group",
	RelUnknownGroup:       "Relation table for an unknown group",
	RelEmptyGroup:         "Group without operations",
	CfgInfo:               "Configuration information",
	CfgProgMaxLen:         "Invalid program length budget",
	CfgStrLen:             "Invalid string length bounds",
	CfgPathMaxDepth:       "Invalid path depth",
	CfgMissingKey:         "Missing configuration key",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CAT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
