package matrix

import (
	"encoding/json"
	"strconv"
)

// GroupID identifies an attribute group inside a variant combination. Attribute
// groups coming from the catalog carry numeric database ids, while locally
// synthesized groups (the "color" group) carry a reserved name. Keeping the two
// forms in one tagged type lets both kinds compare consistently without runtime
// coercion tricks.
type GroupID struct {
	num     int64
	name    string
	numeric bool
}

func NumericGroupID(n int64) GroupID {
	return GroupID{num: n, numeric: true}
}

func NamedGroupID(name string) GroupID {
	return GroupID{name: name}
}

// ParseGroupID returns the numeric form when s parses as a base-10 integer,
// otherwise the named form. The reserved "color" sentinel never parses as a
// number, so it always stays named.
func ParseGroupID(s string) GroupID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NumericGroupID(n)
	}
	return NamedGroupID(s)
}

func (id GroupID) IsNumeric() bool {
	return id.numeric
}

// String is the canonical text form used in selection maps, row keys and JSON.
func (id GroupID) String() string {
	if id.numeric {
		return strconv.FormatInt(id.num, 10)
	}
	return id.name
}

func (id GroupID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *GroupID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ParseGroupID(s)
	return nil
}
