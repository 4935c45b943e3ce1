package tracker

import (
	"os/user"
	"strconv"

	"github.com/srodi/usercpu/pkg/types"
)

// Resolver maps a uid to a display name.
type Resolver func(uid uint32) string

// lookupUser allows tests to stub passwd lookups.
var lookupUser = user.LookupId

// ResolveName looks uid up in the system user database and falls back to the
// decimal uid when there is no entry.
func ResolveName(uid uint32) string {
	id := strconv.FormatUint(uint64(uid), 10)
	u, err := lookupUser(id)
	if err != nil || u.Username == "" {
		return id
	}
	return u.Username
}

// Users accumulates processor time per uid, remembering insertion order.
type Users struct {
	limit   int
	resolve Resolver
	index   map[uint32]int
	records []types.UserRecord
}

// NewUsers returns an empty table. A nil resolver uses ResolveName; a limit of
// zero or less means unbounded.
func NewUsers(limit int, resolve Resolver) *Users {
	if resolve == nil {
		resolve = ResolveName
	}
	return &Users{limit: limit, resolve: resolve, index: make(map[uint32]int)}
}

// Len returns the number of known users.
func (u *Users) Len() int {
	return len(u.records)
}

// FindOrCreate returns the record for uid, creating it with zero ticks and a
// resolved display name on first use. The pointer is valid until the next
// record is created.
func (u *Users) FindOrCreate(uid uint32) (*types.UserRecord, error) {
	if i, ok := u.index[uid]; ok {
		return &u.records[i], nil
	}
	if u.limit > 0 && len(u.records) >= u.limit {
		return nil, ErrTableFull
	}
	u.records = append(u.records, types.UserRecord{UID: uid, Name: u.resolve(uid)})
	u.index[uid] = len(u.records) - 1
	return &u.records[len(u.records)-1], nil
}

// Accumulate adds delta to the total for uid.
func (u *Users) Accumulate(uid uint32, delta types.Ticks) error {
	rec, err := u.FindOrCreate(uid)
	if err != nil {
		return err
	}
	rec.Ticks += delta
	return nil
}

// Records returns a copy of all users in the order they were first seen.
func (u *Users) Records() []types.UserRecord {
	out := make([]types.UserRecord, len(u.records))
	copy(out, u.records)
	return out
}
