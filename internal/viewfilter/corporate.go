package viewfilter

import (
	"github.com/alegrify/go-services/internal/datastore"
)

var (
	corporateFieldsEmployee = []string{
		"_id",
		"name",
		"address",
		"address_city",
		"phone",
	}
	corporateFieldsAdmin = append([]string{
		"admins",
		"employees",
		"pricing_package",
	}, corporateFieldsEmployee...)
)

// Access is what a viewer is allowed to see of a corporate record.
type Access int

const (
	AccessNone Access = iota
	AccessEmployee
	AccessAdmin
)

// AccessFor resolves the viewer's access to a corporate record. Admin wins
// over employee when the viewer appears in both lists. Membership lists may
// hold raw ids or populated user records.
func AccessFor(viewerID string, corporate datastore.Record) Access {
	if viewerID == "" || corporate == nil {
		return AccessNone
	}
	if containsUser(corporate["admins"], viewerID) {
		return AccessAdmin
	}
	if containsUser(corporate["employees"], viewerID) {
		return AccessEmployee
	}
	return AccessNone
}

// OutputToMe returns a projector for corporate records as seen by viewerID.
// No access yields an empty record, not an error: downstream consumers rely
// on that shape.
func OutputToMe(viewerID string) func(datastore.Record) datastore.Record {
	return func(corporate datastore.Record) datastore.Record {
		switch AccessFor(viewerID, corporate) {
		case AccessAdmin:
			return OutputToAdmin(corporate)
		case AccessEmployee:
			return OutputToEmployee(corporate)
		default:
			return datastore.Record{}
		}
	}
}

// OutputToEmployee projects a corporate record for one of its employees.
func OutputToEmployee(corporate datastore.Record) datastore.Record {
	return projectCorporate(corporate, corporateFieldsEmployee)
}

// OutputToAdmin projects a corporate record for one of its admins.
func OutputToAdmin(corporate datastore.Record) datastore.Record {
	return projectCorporate(corporate, corporateFieldsAdmin)
}

func projectCorporate(corporate datastore.Record, fields []string) datastore.Record {
	if corporate == nil {
		return nil
	}
	filtered := datastore.Record{}
	for _, field := range fields {
		if value, ok := corporate[field]; ok {
			filtered[field] = value
		}
	}
	return filtered
}

// containsUser reports whether the membership list holds the user, either as
// a raw id or as a populated record.
func containsUser(list any, userID string) bool {
	switch members := list.(type) {
	case []string:
		for _, id := range members {
			if id == userID {
				return true
			}
		}
	case []any:
		for _, member := range members {
			if matchMember(member, userID) {
				return true
			}
		}
	case []datastore.Record:
		for _, member := range members {
			if member.ID() == userID {
				return true
			}
		}
	}
	return false
}

func matchMember(member any, userID string) bool {
	switch m := member.(type) {
	case string:
		return m == userID
	case datastore.Record:
		return m.ID() == userID
	case map[string]any:
		return datastore.Record(m).ID() == userID
	}
	return false
}
