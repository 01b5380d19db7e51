package world

import (
	"sort"

	"mapstate/internal/domain/propstream"
)

// AttrKey is the one-byte tag preceding every attribute on disk.
// 0 terminates an attribute blob.
type AttrKey uint8

const (
	AttrEnd            AttrKey = 0
	AttrActionID       AttrKey = 4
	AttrUniqueID       AttrKey = 5
	AttrText           AttrKey = 6
	AttrDesc           AttrKey = 7
	AttrHouseDoorID    AttrKey = 14
	AttrCount          AttrKey = 15
	AttrDuration       AttrKey = 16
	AttrDecayingState  AttrKey = 17
	AttrWrittenDate    AttrKey = 18
	AttrWrittenBy      AttrKey = 19
	AttrSleeperGUID    AttrKey = 20
	AttrSleepStart     AttrKey = 21
	AttrCharges        AttrKey = 22
	AttrContainerItems AttrKey = 23
	AttrName           AttrKey = 24
	AttrOwner          AttrKey = 32
)

type attrKind uint8

const (
	kindU8 attrKind = iota + 1
	kindU16
	kindU32
	kindI32
	kindString
)

// genericAttrs lists the keys stored in the attribute set. Door id, sleeper
// and container keys belong to capabilities and are handled by Item.
var genericAttrs = map[AttrKey]attrKind{
	AttrActionID:      kindU16,
	AttrUniqueID:      kindU16,
	AttrText:          kindString,
	AttrDesc:          kindString,
	AttrCount:         kindU8,
	AttrDuration:      kindI32,
	AttrDecayingState: kindU8,
	AttrWrittenDate:   kindU32,
	AttrWrittenBy:     kindString,
	AttrCharges:       kindU16,
	AttrName:          kindString,
	AttrOwner:         kindU32,
}

type attrValue struct {
	num int64
	str string
}

// Attributes is the generic key to typed value set of an item.
type Attributes struct {
	values map[AttrKey]attrValue
}

func (a *Attributes) set(k AttrKey, v attrValue) {
	if a.values == nil {
		a.values = make(map[AttrKey]attrValue)
	}
	a.values[k] = v
}

// SetInt stores a numeric attribute. Keys that are not numeric are ignored.
func (a *Attributes) SetInt(k AttrKey, v int64) {
	kind, ok := genericAttrs[k]
	if !ok || kind == kindString {
		return
	}
	a.set(k, attrValue{num: v})
}

func (a *Attributes) Int(k AttrKey) (int64, bool) {
	if genericAttrs[k] == kindString {
		return 0, false
	}
	v, ok := a.values[k]
	return v.num, ok
}

// SetStr stores a string attribute. Keys that are not strings are ignored.
func (a *Attributes) SetStr(k AttrKey, s string) {
	if genericAttrs[k] != kindString {
		return
	}
	a.set(k, attrValue{str: s})
}

func (a *Attributes) Str(k AttrKey) (string, bool) {
	if genericAttrs[k] != kindString {
		return "", false
	}
	v, ok := a.values[k]
	return v.str, ok
}

func (a *Attributes) Has(k AttrKey) bool {
	_, ok := a.values[k]
	return ok
}

func (a *Attributes) Remove(k AttrKey) {
	delete(a.values, k)
}

func (a *Attributes) Len() int {
	return len(a.values)
}

func (a *Attributes) Keys() []AttrKey {
	keys := make([]AttrKey, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// serialize writes every attribute in ascending key order so that equal
// sets always encode to equal bytes.
func (a *Attributes) serialize(w *propstream.Writer) {
	for _, k := range a.Keys() {
		v := a.values[k]
		w.WriteU8(uint8(k))
		switch genericAttrs[k] {
		case kindU8:
			w.WriteU8(uint8(v.num))
		case kindU16:
			w.WriteU16(uint16(v.num))
		case kindU32:
			w.WriteU32(uint32(v.num))
		case kindI32:
			w.WriteI32(int32(v.num))
		case kindString:
			w.WriteString(v.str)
		}
	}
}

// read decodes the value of a generic key. Unknown keys fail.
func (a *Attributes) read(k AttrKey, r *propstream.Reader) bool {
	kind, ok := genericAttrs[k]
	if !ok {
		return false
	}
	switch kind {
	case kindU8:
		v, ok := r.ReadU8()
		if !ok {
			return false
		}
		a.set(k, attrValue{num: int64(v)})
	case kindU16:
		v, ok := r.ReadU16()
		if !ok {
			return false
		}
		a.set(k, attrValue{num: int64(v)})
	case kindU32:
		v, ok := r.ReadU32()
		if !ok {
			return false
		}
		a.set(k, attrValue{num: int64(v)})
	case kindI32:
		v, ok := r.ReadI32()
		if !ok {
			return false
		}
		a.set(k, attrValue{num: int64(v)})
	case kindString:
		v, ok := r.ReadString()
		if !ok {
			return false
		}
		a.set(k, attrValue{str: v})
	}
	return true
}
