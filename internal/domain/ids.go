package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RecordID is a service-assigned numeric primary key. It is opaque to every
// service other than the one that issued it.
type RecordID int64

// BusinessID is a human-meaningful identifier (course code, service-local
// user id). It is never interchangeable with a RecordID.
type BusinessID string

// ModuleCode is the 4-digit business code of a module ("id_module").
type ModuleCode int

// ErrInvalidRecordID is returned by ParseRecordID for non-positive or
// non-numeric input.
var ErrInvalidRecordID = errors.New("invalid record id")

// ParseRecordID parses a decimal, strictly positive record id.
func ParseRecordID(s string) (RecordID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidRecordID
	}
	return RecordID(n), nil
}

func (id RecordID) String() string { return strconv.FormatInt(int64(id), 10) }

// Valid reports whether id could have been issued by a service.
func (id RecordID) Valid() bool { return id > 0 }

func (b BusinessID) String() string { return string(b) }

// Empty reports whether b carries no identifier after trimming.
func (b BusinessID) Empty() bool { return strings.TrimSpace(string(b)) == "" }

// String renders the code zero-padded to four digits, the form the module
// service uses in its enrollment routes and in user enrollment lists.
func (c ModuleCode) String() string { return fmt.Sprintf("%04d", int(c)) }

// BusinessID returns the module code in its string business form.
func (c ModuleCode) BusinessID() BusinessID { return BusinessID(c.String()) }
