package domain

// Record is an opaque row as exchanged with the admin UI: field name to
// scalar or JSON value. Every persisted record carries a backend-assigned
// "id" plus timestamp fields, which appear under the legacy SDK names
// (created_date / updated_date) at the boundary while storage uses the
// backend's native names (created_at / updated_at).
type Record map[string]any

// legacy → storage timestamp field names. These four keys are the entire
// mapping; no other field is ever renamed in either direction.
var storageFields = map[string]string{
	"created_date": "created_at",
	"updated_date": "updated_at",
}

var legacyFields = map[string]string{
	"created_at": "created_date",
	"updated_at": "updated_date",
}

// ToStorageField maps a legacy field name to its storage name.
// Unknown fields pass through unchanged.
func ToStorageField(name string) string {
	if mapped, ok := storageFields[name]; ok {
		return mapped
	}
	return name
}

// FromStorageField is the exact inverse of ToStorageField.
func FromStorageField(name string) string {
	if mapped, ok := legacyFields[name]; ok {
		return mapped
	}
	return name
}

// ToStorageRecord renames legacy timestamp keys to their storage names.
// Values are never touched. A nil record stays nil.
func ToStorageRecord(r Record) Record {
	if r == nil {
		return nil
	}
	mapped := make(Record, len(r))
	for k, v := range r {
		mapped[ToStorageField(k)] = v
	}
	return mapped
}

// FromStorageRecord renames storage timestamp keys back to the legacy names.
// A nil record stays nil.
func FromStorageRecord(r Record) Record {
	if r == nil {
		return nil
	}
	mapped := make(Record, len(r))
	for k, v := range r {
		mapped[FromStorageField(k)] = v
	}
	return mapped
}

// FromStorageRecords applies FromStorageRecord element-wise.
// A nil slice stays nil.
func FromStorageRecords(rs []Record) []Record {
	if rs == nil {
		return nil
	}
	mapped := make([]Record, len(rs))
	for i, r := range rs {
		mapped[i] = FromStorageRecord(r)
	}
	return mapped
}

// ID returns the record's "id" field as a string, or "" when absent.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy so callers can mutate without aliasing.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}
